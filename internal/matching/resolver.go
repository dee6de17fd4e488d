// Package matching resolves noisy receipt strings to canonical catalog
// entries. Scores are distances: 0 is a perfect match and 1 is nothing in
// common. Resolvers keep no state between calls; the catalog is passed in
// every time.
package matching

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxCandidateLength bounds the candidate text the similarity search accepts.
const MaxCandidateLength = 256

var (
	ErrEmptyCandidate   = errors.New("candidate normalizes to empty text")
	ErrCandidateTooLong = errors.New("candidate text too long")
)

// Field is one searchable attribute of a catalog entity.
type Field[T any] struct {
	Name   string
	Weight float64
	Values func(T) []string
	// Coverage scores the field by how many candidate tokens it accounts for
	// instead of by edit distance.
	Coverage bool
}

// Match is a scored catalog entry.
type Match[T any] struct {
	Entity   T       `json:"entity"`
	Score    float64 `json:"score"`
	Tier     Tier    `json:"tier"`
	Fallback bool    `json:"fallback,omitempty"`
}

// Resolver finds the catalog entry closest to a candidate string.
type Resolver[T any] struct {
	Normalize func(string) string
	Fields    []Field[T]
	// Key returns the normalized name used by the keyword fallback.
	Key func(T) string
}

// Search ranks every catalog entry by weighted distance to the candidate.
// Ties keep catalog order.
func (r *Resolver[T]) Search(candidate string, catalog []T) ([]Match[T], error) {
	if utf8.RuneCountInString(candidate) > MaxCandidateLength {
		return nil, ErrCandidateTooLong
	}
	norm := r.Normalize(candidate)
	if norm == "" {
		return nil, ErrEmptyCandidate
	}

	matches := make([]Match[T], 0, len(catalog))
	for _, entity := range catalog {
		score := r.score(norm, entity)
		matches = append(matches, Match[T]{Entity: entity, Score: score, Tier: Classify(score)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches, nil
}

func (r *Resolver[T]) score(norm string, entity T) float64 {
	var total, weights float64
	for _, f := range r.Fields {
		var values []string
		for _, v := range f.Values(entity) {
			if v = r.Normalize(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		d := 1.0
		if f.Coverage {
			d = coverageDistance(norm, values)
		} else {
			for _, v := range values {
				if fd := fieldDistance(norm, v); fd < d {
					d = fd
				}
			}
		}
		total += f.Weight * d
		weights += f.Weight
	}
	if weights == 0 {
		return 1
	}
	return total / weights
}

// Resolve returns the best entry within Threshold, or nil. When the similarity
// search cannot run, the keyword fallback answers instead.
func (r *Resolver[T]) Resolve(candidate string, catalog []T) *Match[T] {
	if len(catalog) == 0 {
		return nil
	}
	matches, err := r.Search(candidate, catalog)
	if err != nil {
		if errors.Is(err, ErrEmptyCandidate) {
			return nil
		}
		return r.Fallback(candidate, catalog)
	}
	if len(matches) == 0 || matches[0].Score > Threshold {
		return nil
	}
	best := matches[0]
	return &best
}

// Fallback matches the first entry whose key contains any candidate word of
// three or more characters. Its score is fixed at FallbackScore.
func (r *Resolver[T]) Fallback(candidate string, catalog []T) *Match[T] {
	if r.Key == nil {
		return nil
	}
	words := strings.Fields(r.Normalize(candidate))
	for _, entity := range catalog {
		key := r.Normalize(r.Key(entity))
		if key == "" {
			continue
		}
		for _, w := range words {
			if len(w) > 2 && strings.Contains(key, w) {
				return &Match[T]{Entity: entity, Score: FallbackScore, Tier: Classify(FallbackScore), Fallback: true}
			}
		}
	}
	return nil
}

// Suggest returns up to limit ranked entries regardless of tier.
func (r *Resolver[T]) Suggest(candidate string, catalog []T, limit int) []Match[T] {
	matches, err := r.Search(candidate, catalog)
	if err != nil {
		return []Match[T]{}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
