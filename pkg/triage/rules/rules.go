package rules

import (
	"fmt"
	"sort"
)

// DefaultPriority is assigned to rules that omit a priority. It sorts
// after every explicitly prioritized rule.
const DefaultPriority = 999

// Rule maps symptom/severity/factor/temperature conditions to a triage
// label. Rules are immutable after load.
type Rule struct {
	ID                  string      `yaml:"id"`
	Name                string      `yaml:"name"`
	Category            string      `yaml:"category"`
	Priority            int         `yaml:"priority"`
	TriageLabel         string      `yaml:"triage_label"`
	Conditions          []Condition `yaml:"conditions"`
	ExplanationTemplate string      `yaml:"explanation_template"`
}

// Condition is one OR-alternative within a rule. All four field
// requirements must hold for the block to match.
type Condition struct {
	Symptoms          []string `yaml:"symptoms"`
	Severity          []string `yaml:"severity"`
	AdditionalFactors []string `yaml:"additional_factors"`
	Temperature       []string `yaml:"temperature"`
}

// LabelInfo describes the urgency metadata attached to a triage label.
type LabelInfo struct {
	Urgency   string `yaml:"urgency"`
	Action    string `yaml:"action"`
	Timeframe string `yaml:"timeframe"`
}

// UnknownLabelInfo is substituted when a rule references a label absent
// from the catalog's label table.
var UnknownLabelInfo = LabelInfo{
	Urgency:   "unknown",
	Action:    "Consult healthcare provider",
	Timeframe: "as needed",
}

// Catalog holds the full rule set and the label table. It is read-only
// after Load and safe for concurrent use.
type Catalog struct {
	Rules  []Rule               `yaml:"rules"`
	Labels map[string]LabelInfo `yaml:"triage_labels"`
}

// Sorted returns the rules stably sorted by ascending priority; rules
// with equal priority keep their declaration order.
func (c *Catalog) Sorted() []Rule {
	out := make([]Rule, len(c.Rules))
	copy(out, c.Rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// LabelInfoFor resolves a triage label's metadata, substituting
// UnknownLabelInfo for labels missing from the table.
func (c *Catalog) LabelInfoFor(label string) LabelInfo {
	if info, ok := c.Labels[label]; ok {
		return info
	}
	return UnknownLabelInfo
}

// Validate checks catalog invariants once at load time so evaluation
// never has to deal with a malformed rule.
func (c *Catalog) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("catalog has no rules")
	}
	seen := make(map[string]struct{}, len(c.Rules))
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.ID == "" {
			return fmt.Errorf("rule %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("rule %q: duplicate id", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.TriageLabel == "" {
			return fmt.Errorf("rule %q: missing triage_label", r.ID)
		}
		if len(r.Conditions) == 0 {
			return fmt.Errorf("rule %q: no condition blocks", r.ID)
		}
		if r.Priority == 0 {
			r.Priority = DefaultPriority
		}
	}
	return nil
}
