package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/carelane/triage/pkg/triage/store"
)

// Store is an in-memory implementation of store.Store for tests and
// ephemeral runs.
type Store struct {
	mu       sync.RWMutex
	sessions []store.Session
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSession appends one session record.
func (s *Store) SaveSession(ctx context.Context, sess store.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sess)
	return nil
}

// GetSession returns the most recent record for a session id.
func (s *Store) GetSession(ctx context.Context, sessionID string) (store.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if s.sessions[i].SessionID == sessionID {
			return s.sessions[i], true, nil
		}
	}
	return store.Session{}, false, nil
}

// RecentSessions returns up to limit records, newest first by event id.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Session, len(s.sessions))
	copy(out, s.sessions)
	sort.Slice(out, func(i, j int) bool {
		return out[i].EventID > out[j].EventID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByLabel returns the number of stored sessions per triage label.
func (s *Store) CountByLabel(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, sess := range s.sessions {
		counts[sess.TriageLabel]++
	}
	return counts, nil
}
