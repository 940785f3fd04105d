// Package match holds the text normalizer and the four condition
// predicates used by the rule evaluator. Every predicate is pure:
// normalization is applied to each compared string on every call and
// nothing is cached.
package match

import "strings"

// Normalize lower-cases text and strips surrounding whitespace.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Symptoms reports whether any rule symptom phrase and any user symptom
// phrase overlap by bidirectional substring containment. An empty rule
// symptom list never matches: symptoms are mandatory per condition
// block (unlike factors, see Factors).
func Symptoms(userSymptoms, ruleSymptoms []string) bool {
	return containsAnyPair(userSymptoms, ruleSymptoms)
}

// Severity reports whether the user's severity satisfies the rule's
// accepted set. An empty set or the "any" sentinel matches
// unconditionally, including when the user gave no severity.
func Severity(userSeverity string, ruleSeverity []string) bool {
	if len(ruleSeverity) == 0 {
		return true
	}
	any := false
	for _, s := range ruleSeverity {
		if Normalize(s) == "any" {
			any = true
			break
		}
	}
	if userSeverity == "" {
		return any
	}
	if any {
		return true
	}
	user := Normalize(userSeverity)
	for _, s := range ruleSeverity {
		if Normalize(s) == user {
			return true
		}
	}
	return false
}

// Factors reports whether the user's additional factors satisfy the
// rule's. An empty rule factor list is a vacuous pass; otherwise the
// same bidirectional containment as Symptoms applies.
func Factors(userFactors, ruleFactors []string) bool {
	if len(ruleFactors) == 0 {
		return true
	}
	return containsAnyPair(userFactors, ruleFactors)
}

// Temperature reports whether the user's temperature text satisfies the
// rule's. Either side being empty is a vacuous pass; otherwise a rule
// phrase must appear inside the user text (one-directional).
func Temperature(userTemp string, ruleTemp []string) bool {
	if userTemp == "" || len(ruleTemp) == 0 {
		return true
	}
	user := Normalize(userTemp)
	for _, t := range ruleTemp {
		if strings.Contains(user, Normalize(t)) {
			return true
		}
	}
	return false
}

// containsAnyPair checks bidirectional substring containment between
// any rule phrase and any user phrase. Substring matching tolerates
// free-text variation ("severe chest pain" vs "chest pain") without a
// tokenizer.
func containsAnyPair(userPhrases, rulePhrases []string) bool {
	for _, rp := range rulePhrases {
		rule := Normalize(rp)
		for _, up := range userPhrases {
			user := Normalize(up)
			if strings.Contains(user, rule) || strings.Contains(rule, user) {
				return true
			}
		}
	}
	return false
}
