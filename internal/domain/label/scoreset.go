// Package label models the semantic scorer output: independent relevance
// scores over a requested candidate label set.
package label

import (
	"fmt"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/category"
)

// ScoreSet holds one relevance score in [0,1] per candidate label.
// Scores are independent relevances, not a probability distribution, so
// they need not sum to 1.
type ScoreSet struct {
	order  []category.Category
	scores map[category.Category]float64
}

// New builds a ScoreSet for the given candidate order. Labels missing
// from scores default to 0; any score outside [0,1] is rejected.
func New(order []category.Category, scores map[category.Category]float64) (ScoreSet, error) {
	if len(order) == 0 {
		return ScoreSet{}, domain.ErrEmptyCategorySet
	}
	out := make(map[category.Category]float64, len(order))
	kept := make([]category.Category, 0, len(order))
	seen := make(map[category.Category]struct{}, len(order))
	for _, l := range order {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		s := scores[l]
		if s < 0 || s > 1 {
			return ScoreSet{}, fmt.Errorf("label %q score %v: %w", l, s, domain.ErrScoreOutOfRange)
		}
		out[l] = s
		kept = append(kept, l)
	}
	return ScoreSet{order: kept, scores: out}, nil
}

// Best returns the highest-scoring label and its score. Ties resolve to
// the label supplied first in the candidate order.
func (s ScoreSet) Best() (category.Category, float64) {
	if len(s.order) == 0 {
		return "", 0
	}
	best := s.order[0]
	bestScore := s.scores[best]
	for _, l := range s.order[1:] {
		if s.scores[l] > bestScore {
			best = l
			bestScore = s.scores[l]
		}
	}
	return best, bestScore
}

// Fallback builds the degraded-scorer shape: conf on the fallback label,
// 0 everywhere else. If fallback is not among the candidates the first
// candidate receives conf instead.
func Fallback(
	order []category.Category, fallback category.Category, conf float64,
) (ScoreSet, error) {
	scores := make(map[category.Category]float64, len(order))
	assigned := false
	for _, l := range order {
		if l == fallback {
			scores[l] = conf
			assigned = true
		}
	}
	if !assigned && len(order) > 0 {
		scores[order[0]] = conf
	}
	return New(order, scores)
}

// Score returns the score assigned to c, or 0 if c was not a candidate.
func (s ScoreSet) Score(c category.Category) float64 { return s.scores[c] }

// Labels returns the candidate labels in supplied order.
func (s ScoreSet) Labels() []category.Category {
	out := make([]category.Category, len(s.order))
	copy(out, s.order)
	return out
}
