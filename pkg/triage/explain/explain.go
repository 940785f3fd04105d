// Package explain produces human-readable justifications for triage
// results. Generation is two-tier: an optional remote text generator
// behind a bounded timeout, and a template fallback that can never
// fail. The classifier stays fully functional with zero external
// services reachable.
package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carelane/triage/pkg/triage/rules"
)

// DefaultTimeout bounds the remote generation call when no explicit
// timeout is configured.
const DefaultTimeout = 10 * time.Second

// defaultTemplate is used when a rule carries no explanation template.
const defaultTemplate = "Please consult with a healthcare provider about your symptoms."

// Subject carries the request fields the explanation may reference.
type Subject struct {
	Symptoms []string
	Severity string
	Duration string
	Factors  []string
}

// TextGenerator is the optional remote collaborator. It may fail;
// Generator absorbs any failure.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator builds explanations. The zero value is usable and always
// takes the template path.
type Generator struct {
	Text    TextGenerator
	Timeout time.Duration
}

// Explain returns justification prose for a matched rule. Any remote
// failure, timeout included, falls back to the template path; errors
// never reach the caller.
func (g *Generator) Explain(ctx context.Context, r rules.Rule, s Subject) string {
	if g.Text != nil {
		timeout := g.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		genCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		out, err := g.Text.Generate(genCtx, Prompt(r, s))
		if err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
	}
	return Template(r, s)
}

// Template renders the rule's explanation template, appending the
// reported symptoms verbatim in request order.
func Template(r rules.Rule, s Subject) string {
	text := r.ExplanationTemplate
	if text == "" {
		text = defaultTemplate
	}
	if len(s.Symptoms) > 0 {
		text += fmt.Sprintf(" Your reported symptoms include: %s.", strings.Join(s.Symptoms, ", "))
	}
	return text
}

// Prompt builds the fixed prompt sent to the remote generator.
func Prompt(r rules.Rule, s Subject) string {
	var b strings.Builder
	b.WriteString("As a healthcare triage assistant, provide a clear, empathetic explanation for the following triage recommendation:\n\n")
	fmt.Fprintf(&b, "Rule: %s\n", r.Name)
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Triage Label: %s\n\n", r.TriageLabel)
	fmt.Fprintf(&b, "Patient Symptoms: %s\n", strings.Join(s.Symptoms, ", "))
	fmt.Fprintf(&b, "Severity: %s\n", orNotSpecified(s.Severity))
	fmt.Fprintf(&b, "Duration: %s\n", orNotSpecified(s.Duration))
	fmt.Fprintf(&b, "Additional Factors: %s\n\n", strings.Join(s.Factors, ", "))
	b.WriteString("Provide a 2-3 sentence explanation that:\n")
	b.WriteString("1. Acknowledges the patient's symptoms\n")
	b.WriteString("2. Explains why this triage level is recommended\n")
	b.WriteString("3. Provides clear next steps\n\n")
	b.WriteString("Keep the tone professional, empathetic, and reassuring while being appropriately urgent when necessary.\n")
	return b.String()
}

func orNotSpecified(v string) string {
	if v == "" {
		return "Not specified"
	}
	return v
}
