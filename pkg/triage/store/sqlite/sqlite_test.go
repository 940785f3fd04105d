package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/carelane/triage/pkg/triage"
	"github.com/carelane/triage/pkg/triage/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleSession(sessionID, label string) store.Session {
	req := triage.Request{
		Symptoms:          []string{"chest pain", "dizziness"},
		Severity:          "severe",
		Duration:          "sudden onset",
		Temperature:       "99°F",
		AdditionalFactors: []string{"sweating"},
		PatientAge:        58,
		SessionID:         sessionID,
	}
	res := triage.Result{
		SessionID:   sessionID,
		TriageLabel: label,
		MatchedRules: []triage.MatchedRule{
			{ID: "red_cardiac", Name: "Cardiac Emergency", Category: "RED", Confidence: 1.0},
		},
		Explanation:     "Call 911.",
		ConfidenceScore: 1.0,
		Timestamp:       time.Now().UTC(),
	}
	return store.NewSession(req, res, "dev@local")
}

func TestSaveAndGetSession(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	saved := sampleSession("s-1", "EMERGENCY_911")
	if err := st.SaveSession(ctx, saved); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, ok, err := st.GetSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !ok {
		t.Fatal("session not found")
	}
	if got.EventID != saved.EventID || got.SessionID != "s-1" || got.UserID != "dev@local" {
		t.Errorf("identity fields differ: %+v", got)
	}
	if got.TriageLabel != "EMERGENCY_911" || got.Confidence != 1.0 || got.Explanation != "Call 911." {
		t.Errorf("result fields differ: %+v", got)
	}
	// the request round-trips structurally through strict JSON
	if len(got.Request.Symptoms) != 2 || got.Request.Symptoms[0] != "chest pain" {
		t.Errorf("request symptoms differ: %+v", got.Request)
	}
	if got.Request.Severity != "severe" || got.Request.PatientAge != 58 || got.Request.Temperature != "99°F" {
		t.Errorf("request fields differ: %+v", got.Request)
	}
	if len(got.MatchedRules) != 1 || got.MatchedRules[0].ID != "red_cardiac" {
		t.Errorf("matched rules differ: %+v", got.MatchedRules)
	}
}

func TestGetSessionMissing(t *testing.T) {
	st := openTestStore(t)
	_, ok, err := st.GetSession(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if ok {
		t.Error("missing session must report ok=false")
	}
}

func TestGetSessionReturnsNewestRecord(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := sampleSession("s-dup", "SELF_CARE_MONITOR")
	if err := st.SaveSession(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := sampleSession("s-dup", "URGENT_CARE")
	if err := st.SaveSession(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := st.GetSession(ctx, "s-dup")
	if err != nil || !ok {
		t.Fatalf("GetSession: ok=%v err=%v", ok, err)
	}
	if got.EventID != second.EventID {
		t.Errorf("got event %s, want the newest %s", got.EventID, second.EventID)
	}
}

func TestRecentSessionsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ids := []string{"s-a", "s-b", "s-c"}
	for _, id := range ids {
		if err := st.SaveSession(ctx, sampleSession(id, "SELF_CARE_MONITOR")); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := st.RecentSessions(ctx, 2)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d sessions, want 2", len(recent))
	}
	if recent[0].SessionID != "s-c" || recent[1].SessionID != "s-b" {
		t.Errorf("wrong order: %s, %s", recent[0].SessionID, recent[1].SessionID)
	}
}

func TestCountByLabel(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, label := range []string{"EMERGENCY_911", "EMERGENCY_911", "SELF_CARE_MONITOR"} {
		if err := st.SaveSession(ctx, sampleSession("s-x", label)); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := st.CountByLabel(ctx)
	if err != nil {
		t.Fatalf("CountByLabel: %v", err)
	}
	if counts["EMERGENCY_911"] != 2 || counts["SELF_CARE_MONITOR"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
