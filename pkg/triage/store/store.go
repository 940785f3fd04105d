// Package store defines the session-logging collaborator. Persistence
// is fire-and-forget from the engine's perspective: a slow or failing
// write must never delay or fail an evaluation.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/carelane/triage/pkg/triage"
)

// Store persists evaluated triage sessions and serves the reporting
// queries the dashboard uses.
type Store interface {
	Close() error

	SaveSession(ctx context.Context, s Session) error
	// GetSession returns the most recent record for a session id.
	GetSession(ctx context.Context, sessionID string) (Session, bool, error)
	// RecentSessions returns up to limit records, newest first.
	RecentSessions(ctx context.Context, limit int) ([]Session, error)
	// CountByLabel returns the number of stored sessions per triage label.
	CountByLabel(ctx context.Context) (map[string]int64, error)
}

// Session is one durable record of an evaluation. EventID is a ULID,
// so records sort chronologically by id.
type Session struct {
	EventID      string
	SessionID    string
	CreatedAt    time.Time
	UserID       string
	Request      triage.Request
	TriageLabel  string
	MatchedRules []triage.MatchedRule
	Explanation  string
	Confidence   float64
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newEventID returns a monotonic ULID so records created in the same
// millisecond still sort in creation order.
func newEventID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// NewSession builds a Session record from an evaluation. The request is
// kept as structured data; it is serialized as strict JSON by the
// store, never as an evaluatable blob.
func NewSession(req triage.Request, res triage.Result, userID string) Session {
	return Session{
		EventID:      newEventID(),
		SessionID:    res.SessionID,
		CreatedAt:    res.Timestamp,
		UserID:       userID,
		Request:      req,
		TriageLabel:  res.TriageLabel,
		MatchedRules: res.MatchedRules,
		Explanation:  res.Explanation,
		Confidence:   res.ConfidenceScore,
	}
}
