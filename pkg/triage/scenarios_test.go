package triage

import (
	"context"
	"testing"

	"github.com/carelane/triage/pkg/triage/rules"
)

// End-to-end scenarios against the shipped catalog.

func shippedEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	cat, err := rules.Load("../../rules.yaml")
	if err != nil {
		t.Fatalf("load shipped catalog: %v", err)
	}
	return New(Options{Catalog: cat})
}

func TestScenarioEmergency(t *testing.T) {
	e := shippedEvaluator(t)
	res := e.Evaluate(context.Background(), Request{
		Symptoms:          []string{"chest pain", "shortness of breath", "dizziness"},
		Severity:          "severe",
		Duration:          "sudden onset",
		AdditionalFactors: []string{"sweating", "nausea"},
	})

	if res.TriageLabel != "EMERGENCY_911" {
		t.Errorf("label = %s, want EMERGENCY_911", res.TriageLabel)
	}
	if res.Urgency != "immediate" {
		t.Errorf("urgency = %s, want immediate", res.Urgency)
	}
	if len(res.MatchedRules) == 0 {
		t.Error("matched rules must be non-empty")
	}
}

func TestScenarioUrgentCare(t *testing.T) {
	e := shippedEvaluator(t)
	res := e.Evaluate(context.Background(), Request{
		Symptoms:          []string{"fever", "difficulty breathing", "headache"},
		Severity:          "high",
		Duration:          "2 days",
		Temperature:       "104°F",
		AdditionalFactors: []string{"confusion"},
	})

	if res.TriageLabel != "URGENT_CARE" {
		t.Errorf("label = %s, want URGENT_CARE", res.TriageLabel)
	}
	if res.Urgency != "urgent" {
		t.Errorf("urgency = %s, want urgent", res.Urgency)
	}
}

func TestScenarioSeeDoctor(t *testing.T) {
	e := shippedEvaluator(t)
	res := e.Evaluate(context.Background(), Request{
		Symptoms:          []string{"persistent cough", "fatigue"},
		Severity:          "moderate",
		Duration:          "3 weeks",
		AdditionalFactors: []string{"weight loss"},
	})

	if res.TriageLabel != "SEE_DOCTOR_24H" {
		t.Errorf("label = %s, want SEE_DOCTOR_24H", res.TriageLabel)
	}
	if res.Urgency != "moderate" {
		t.Errorf("urgency = %s, want moderate", res.Urgency)
	}
}

func TestScenarioSelfCare(t *testing.T) {
	e := shippedEvaluator(t)
	res := e.Evaluate(context.Background(), Request{
		Symptoms: []string{"runny nose", "sneezing", "mild cough"},
		Severity: "mild",
		Duration: "2 days",
	})

	if res.TriageLabel != "SELF_CARE_MONITOR" {
		t.Errorf("label = %s, want SELF_CARE_MONITOR", res.TriageLabel)
	}
	if res.Urgency != "low" {
		t.Errorf("urgency = %s, want low", res.Urgency)
	}
	// a real catalog match, not the fallback
	if len(res.MatchedRules) == 0 {
		t.Error("cold symptoms should match the GREEN rule")
	}
}

func TestScenarioUnmatchedFallsBack(t *testing.T) {
	e := shippedEvaluator(t)
	res := e.Evaluate(context.Background(), Request{
		Symptoms: []string{"some phrase matching nothing"},
		Severity: "unknown",
	})

	if res.TriageLabel != "SELF_CARE_MONITOR" {
		t.Errorf("label = %s, want SELF_CARE_MONITOR", res.TriageLabel)
	}
	if len(res.MatchedRules) != 0 {
		t.Errorf("expected the default fallback, but rules matched: %+v", res.MatchedRules)
	}
	if res.ConfidenceScore != 0.3 {
		t.Errorf("fallback confidence = %v, want 0.3", res.ConfidenceScore)
	}
}

func TestScenarioPriorityAcrossBands(t *testing.T) {
	e := shippedEvaluator(t)
	res := e.Evaluate(context.Background(), Request{
		Symptoms:          []string{"chest pain", "fever"},
		Severity:          "severe",
		AdditionalFactors: []string{"difficulty breathing"},
	})

	if res.TriageLabel != "EMERGENCY_911" {
		t.Errorf("label = %s, want the RED band to win", res.TriageLabel)
	}
}

func TestScenarioConfidenceBounds(t *testing.T) {
	e := shippedEvaluator(t)
	res := e.Evaluate(context.Background(), Request{
		Symptoms:          []string{"chest pain"},
		Severity:          "severe",
		Duration:          "sudden onset",
		AdditionalFactors: []string{"sweating"},
	})

	if res.ConfidenceScore < 0 || res.ConfidenceScore > 1 {
		t.Errorf("confidence %v out of [0,1]", res.ConfidenceScore)
	}
	for _, m := range res.MatchedRules {
		if m.Confidence < 0 || m.Confidence > 1 {
			t.Errorf("rule %s confidence %v out of [0,1]", m.ID, m.Confidence)
		}
	}
}
