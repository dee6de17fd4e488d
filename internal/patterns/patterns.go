// Package patterns holds the static receipt-reading catalog: OCR correction
// rules, store detection patterns, specific product signatures, the line-item
// grammar and the keyword lists used to screen receipt lines.
//
// Everything here is data. The engines in internal/parser walk these tables in
// order; changing behaviour means editing a table, not the engine.
package patterns

import "regexp"

// Rule rewrites the text matched by Pattern with Replacement.
// Replacement is a regexp.Expand template (${1} refers to the first group).
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
	// Global rewrites every match. Otherwise only the first match is rewritten.
	Global bool
	// Broad marks rules whose pattern reaches well past the token they target
	// (single letters, bare numbers). They are kept as-is and listed by BroadRules.
	Broad bool
}

// RuleGroup is a named, ordered list of rules applied as one pass.
type RuleGroup struct {
	Name  string
	Rules []Rule
}

func first(expr, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr), Replacement: replacement}
}

func every(expr, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr), Replacement: replacement, Global: true}
}

func broad(r Rule) Rule {
	r.Broad = true
	return r
}

// BroadRules returns the correction rules flagged as over-matching, with their group.
func BroadRules() map[string][]Rule {
	out := make(map[string][]Rule)
	for _, g := range CorrectionGroups {
		for _, r := range g.Rules {
			if r.Broad {
				out[g.Name] = append(out[g.Name], r)
			}
		}
	}
	return out
}
