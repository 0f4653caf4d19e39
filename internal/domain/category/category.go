// Package category defines the closed set of classification outcomes.
package category

import (
	"fmt"

	"github.com/trinetra-labs/trinetra/internal/domain"
)

// Category is one classification outcome.
type Category string

// Default classification outcomes.
const (
	DrugSale Category = "drug sale"
	Normal   Category = "normal"
	Spam     Category = "spam"
	Other    Category = "other"
)

// Set is the fixed candidate label set the engine classifies into.
// It always contains exactly one target (positive) category and one
// fallback (benign default) category.
type Set struct {
	labels   []Category
	target   Category
	fallback Category
}

// NewSet builds a category set. Duplicates are dropped, order is preserved.
// The target and fallback categories must be members of the set.
func NewSet(labels []Category, target, fallback Category) (Set, error) {
	seen := make(map[Category]struct{}, len(labels))
	deduped := make([]Category, 0, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		deduped = append(deduped, l)
	}
	if len(deduped) == 0 {
		return Set{}, domain.ErrEmptyCategorySet
	}
	if _, ok := seen[target]; !ok {
		return Set{}, fmt.Errorf("target %q: %w", target, domain.ErrUnknownCategory)
	}
	if _, ok := seen[fallback]; !ok {
		return Set{}, fmt.Errorf("fallback %q: %w", fallback, domain.ErrUnknownCategory)
	}
	return Set{labels: deduped, target: target, fallback: fallback}, nil
}

// DefaultSet returns the stock label set: drug sale (target), normal
// (fallback), spam, other.
func DefaultSet() Set {
	s, err := NewSet([]Category{DrugSale, Normal, Spam, Other}, DrugSale, Normal)
	if err != nil {
		panic(err) // static input, cannot fail
	}
	return s
}

// Labels returns the candidate labels in configured order.
func (s Set) Labels() []Category {
	out := make([]Category, len(s.labels))
	copy(out, s.labels)
	return out
}

// Target returns the positive category the engine is hunting for.
func (s Set) Target() Category { return s.target }

// Fallback returns the benign default category.
func (s Set) Fallback() Category { return s.fallback }

// Contains reports whether c is a member of the set.
func (s Set) Contains(c Category) bool {
	for _, l := range s.labels {
		if l == c {
			return true
		}
	}
	return false
}
