// Package triage implements a rule-based symptom triage classifier.
// An Evaluator is constructed once from a validated catalog and is safe
// for unlimited concurrent evaluations; it retains no state between
// calls. The matching is a deterministic, auditable heuristic, not a
// medical diagnosis.
package triage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carelane/triage/pkg/triage/explain"
	"github.com/carelane/triage/pkg/triage/match"
	"github.com/carelane/triage/pkg/triage/rules"
)

// FallbackLabel is returned when no rule matches a request.
const FallbackLabel = "SELF_CARE_MONITOR"

// FallbackExplanation is the fixed prose for the no-match outcome.
const FallbackExplanation = "Based on the symptoms provided, self-care with monitoring is recommended. " +
	"If symptoms worsen or persist, please seek medical attention."

const (
	baseConfidence     = 0.7
	fieldBonus         = 0.1
	fallbackConfidence = 0.3
)

// Request is a caller-supplied triage request. Symptoms must be
// non-empty; enforcing that is the boundary layer's job, not the
// engine's. All other fields are optional.
type Request struct {
	Symptoms          []string `json:"symptoms"`
	Severity          string   `json:"severity,omitempty"`
	Duration          string   `json:"duration,omitempty"`
	AdditionalFactors []string `json:"additional_factors,omitempty"`
	Temperature       string   `json:"temperature,omitempty"`
	PatientAge        int      `json:"patient_age,omitempty"`
	SessionID         string   `json:"session_id,omitempty"`
}

// MatchedRule records one rule that matched, with its confidence.
type MatchedRule struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Result is the engine's output. MatchedRules lists every rule that
// matched in priority order, not just the winner, as an audit trail.
type Result struct {
	SessionID       string        `json:"session_id"`
	TriageLabel     string        `json:"triage_label"`
	Urgency         string        `json:"urgency"`
	Action          string        `json:"action"`
	Timeframe       string        `json:"timeframe"`
	MatchedRules    []MatchedRule `json:"matched_rules"`
	Explanation     string        `json:"explanation"`
	ConfidenceScore float64       `json:"confidence_score"`
	Timestamp       time.Time     `json:"timestamp"`
}

// Explainer produces justification prose for a matched rule. It must
// always return usable text; failures are its own to absorb.
type Explainer interface {
	Explain(ctx context.Context, r rules.Rule, s explain.Subject) string
}

// Options configures an Evaluator.
type Options struct {
	Catalog   *rules.Catalog
	Explainer Explainer
}

// Evaluator evaluates requests against an immutable rule catalog.
type Evaluator struct {
	sorted    []rules.Rule
	catalog   *rules.Catalog
	explainer Explainer
}

// New creates an Evaluator. The catalog is sorted by priority once here
// so every evaluation walks rules in the same order.
func New(opts Options) *Evaluator {
	ex := opts.Explainer
	if ex == nil {
		ex = &explain.Generator{}
	}
	return &Evaluator{
		sorted:    opts.Catalog.Sorted(),
		catalog:   opts.Catalog,
		explainer: ex,
	}
}

// EvaluateRule reports whether a single rule matches the request, and
// the confidence if it does. Condition blocks are tried in declaration
// order under OR semantics; within a block the four matchers are AND'd.
func (e *Evaluator) EvaluateRule(req Request, r rules.Rule) (bool, float64) {
	for _, cond := range r.Conditions {
		if !match.Symptoms(req.Symptoms, cond.Symptoms) {
			continue
		}
		if !match.Severity(req.Severity, cond.Severity) {
			continue
		}
		if !match.Factors(req.AdditionalFactors, cond.AdditionalFactors) {
			continue
		}
		if !match.Temperature(req.Temperature, cond.Temperature) {
			continue
		}
		return true, confidence(req)
	}
	return false, 0.0
}

// confidence rewards more-complete input, not stronger matching. Base
// 0.7, +0.1 per optional field present, capped at 1.0.
func confidence(req Request) float64 {
	c := baseConfidence
	if req.Severity != "" {
		c += fieldBonus
	}
	if len(req.AdditionalFactors) > 0 {
		c += fieldBonus
	}
	if req.Temperature != "" {
		c += fieldBonus
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// Evaluate classifies a request against every rule in priority order.
// It always produces a Result: unmatched input yields the fallback
// classification, never an error. The context bounds only the optional
// explanation call.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) Result {
	var matched []MatchedRule
	var winner *rules.Rule

	for i := range e.sorted {
		r := &e.sorted[i]
		ok, conf := e.EvaluateRule(req, *r)
		if !ok {
			continue
		}
		matched = append(matched, MatchedRule{
			ID:         r.ID,
			Name:       r.Name,
			Category:   r.Category,
			Confidence: conf,
		})
		if winner == nil {
			winner = r
		}
	}

	var label, explanation string
	var score float64
	if winner == nil {
		label = FallbackLabel
		explanation = FallbackExplanation
		score = fallbackConfidence
	} else {
		label = winner.TriageLabel
		score = matched[0].Confidence
		explanation = e.explainer.Explain(ctx, *winner, explain.Subject{
			Symptoms: req.Symptoms,
			Severity: req.Severity,
			Duration: req.Duration,
			Factors:  req.AdditionalFactors,
		})
	}

	info := e.catalog.LabelInfoFor(label)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return Result{
		SessionID:       sessionID,
		TriageLabel:     label,
		Urgency:         info.Urgency,
		Action:          info.Action,
		Timeframe:       info.Timeframe,
		MatchedRules:    matched,
		Explanation:     explanation,
		ConfidenceScore: score,
		Timestamp:       time.Now().UTC(),
	}
}

// Catalog exposes the evaluator's catalog for debug surfaces.
func (e *Evaluator) Catalog() *rules.Catalog {
	return e.catalog
}
