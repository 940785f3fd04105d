package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/carelane/triage/pkg/triage"
	"github.com/carelane/triage/pkg/triage/store"
)

// sqliteStore implements store.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite session store with WAL mode enabled and the
// schema initialized.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS triage_sessions (
	event_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	created_at TEXT NOT NULL,
	user_id TEXT,
	symptoms TEXT,
	severity TEXT,
	duration TEXT,
	temperature TEXT,
	additional_factors TEXT,
	patient_age INTEGER,
	triage_label TEXT NOT NULL,
	matched_rules TEXT,
	explanation TEXT,
	confidence REAL,
	request_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_sessions_session ON triage_sessions(session_id);
CREATE INDEX IF NOT EXISTS idx_sessions_label ON triage_sessions(triage_label);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSession inserts one session record.
func (s *sqliteStore) SaveSession(ctx context.Context, sess store.Session) error {
	matchedJSON, err := json.Marshal(sess.MatchedRules)
	if err != nil {
		return fmt.Errorf("encode matched rules: %w", err)
	}
	requestJSON, err := json.Marshal(sess.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triage_sessions
		(event_id, session_id, created_at, user_id, symptoms, severity, duration,
		 temperature, additional_factors, patient_age, triage_label, matched_rules,
		 explanation, confidence, request_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.EventID,
		sess.SessionID,
		sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		sess.UserID,
		strings.Join(sess.Request.Symptoms, ", "),
		sess.Request.Severity,
		sess.Request.Duration,
		sess.Request.Temperature,
		strings.Join(sess.Request.AdditionalFactors, ", "),
		sess.Request.PatientAge,
		sess.TriageLabel,
		string(matchedJSON),
		sess.Explanation,
		sess.Confidence,
		string(requestJSON),
	)
	return err
}

// GetSession returns the most recent record for a session id.
func (s *sqliteStore) GetSession(ctx context.Context, sessionID string) (store.Session, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT event_id, session_id, created_at, user_id, triage_label,
		       matched_rules, explanation, confidence, request_json
		FROM triage_sessions
		WHERE session_id = ?
		ORDER BY event_id DESC
		LIMIT 1`, sessionID)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return store.Session{}, false, nil
	}
	if err != nil {
		return store.Session{}, false, err
	}
	return sess, true, nil
}

// RecentSessions returns up to limit records, newest first. ULID event
// ids sort chronologically, so ordering by id is ordering by time.
func (s *sqliteStore) RecentSessions(ctx context.Context, limit int) ([]store.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, session_id, created_at, user_id, triage_label,
		       matched_rules, explanation, confidence, request_json
		FROM triage_sessions
		ORDER BY event_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// CountByLabel returns the number of stored sessions per triage label.
func (s *sqliteStore) CountByLabel(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT triage_label, COUNT(*) FROM triage_sessions GROUP BY triage_label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var label string
		var n int64
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession decodes one row. The stored request is strict JSON; a
// record whose blob does not parse is a data error, not something to
// evaluate around.
func scanSession(r rowScanner) (store.Session, error) {
	var sess store.Session
	var createdAt, matchedJSON, requestJSON string
	err := r.Scan(
		&sess.EventID,
		&sess.SessionID,
		&createdAt,
		&sess.UserID,
		&sess.TriageLabel,
		&matchedJSON,
		&sess.Explanation,
		&sess.Confidence,
		&requestJSON,
	)
	if err != nil {
		return store.Session{}, err
	}

	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.Session{}, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(matchedJSON), &sess.MatchedRules); err != nil {
		return store.Session{}, fmt.Errorf("decode matched rules: %w", err)
	}
	var req triage.Request
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return store.Session{}, fmt.Errorf("decode request: %w", err)
	}
	sess.Request = req
	return sess, nil
}
