package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// tokenTolerance is the largest edit ratio at which two tokens count as the same word.
const tokenTolerance = 0.2

// editRatio is the Levenshtein distance between a and b over the longer length:
// 0 for equal strings, 1 for nothing in common.
func editRatio(a, b string) float64 {
	if a == b {
		return 0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// tokenCredit is how much of a word tok accounts for against pool: 1 for an
// exact word, 1 minus the edit ratio for a near miss, 0 beyond tokenTolerance.
func tokenCredit(tok string, pool []string) float64 {
	best := 0.0
	for _, p := range pool {
		if tok == p {
			return 1
		}
		if ratio := editRatio(tok, p); ratio <= tokenTolerance && 1-ratio > best {
			best = 1 - ratio
		}
	}
	return best
}

// fieldDistance scores a normalized candidate against one normalized field value.
// It takes the better of whole-string edit ratio and token overlap, where
// overlap is measured against the larger token set. A near-miss word counts only
// for its similarity, so 0 needs the same words.
func fieldDistance(candidate, value string) float64 {
	if value == "" {
		return 1
	}
	best := editRatio(candidate, value)

	ct, vt := strings.Fields(candidate), strings.Fields(value)
	matched := 0.0
	for _, tok := range ct {
		matched += tokenCredit(tok, vt)
	}
	denom := len(ct)
	if len(vt) > denom {
		denom = len(vt)
	}
	if denom > 0 {
		if overlap := 1 - matched/float64(denom); overlap < best {
			best = overlap
		}
	}
	return best
}

// coverageDistance scores how much of the candidate a keyword pool accounts for.
// Keywords describe an entity loosely, so only candidate tokens are counted.
func coverageDistance(candidate string, values []string) float64 {
	var pool []string
	for _, v := range values {
		pool = append(pool, strings.Fields(v)...)
	}
	ct := strings.Fields(candidate)
	if len(pool) == 0 || len(ct) == 0 {
		return 1
	}
	matched := 0.0
	for _, tok := range ct {
		matched += tokenCredit(tok, pool)
	}
	return 1 - matched/float64(len(ct))
}
