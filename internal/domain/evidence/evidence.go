// Package evidence aggregates keyword matches into the lexical evidence
// the decision policy reasons about.
package evidence

import "github.com/trinetra-labs/trinetra/internal/domain/keyword"

// Evidence is the outcome of scanning one text against the keyword
// registry: the distinct matched terms (original casing, registry order)
// plus per-group hit counts. Immutable once built.
type Evidence struct {
	terms      []string
	groups     map[string]int
	boost      float64
	highSignal bool
}

// Aggregate folds raw registry matches into Evidence. The confidence
// boost is the sum of group weights counted once per distinct group,
// regardless of how many terms in that group fired.
func Aggregate(matches []keyword.Match) Evidence {
	ev := Evidence{groups: make(map[string]int, 4)}
	for _, m := range matches {
		ev.terms = append(ev.terms, m.Term)
		if ev.groups[m.Group] == 0 {
			ev.boost += m.Weight
		}
		ev.groups[m.Group]++
		if m.HighSignal {
			ev.highSignal = true
		}
	}
	return ev
}

// Terms returns the matched terms in match order.
func (e Evidence) Terms() []string {
	out := make([]string, len(e.terms))
	copy(out, e.terms)
	return out
}

// CategoriesMatched returns how many independent evidence groups had at
// least one hit. This is the key aggregation signal of the decision
// policy: two groups firing together is treated as near-certain.
func (e Evidence) CategoriesMatched() int { return len(e.groups) }

// GroupCount returns the number of matched terms in the named group.
func (e Evidence) GroupCount(name string) int { return e.groups[name] }

// Boost returns the additive confidence bonus earned by the matched
// groups.
func (e Evidence) Boost() float64 { return e.boost }

// HasHighSignal reports whether any matched term belongs to a
// high-signal (exact drug name) group.
func (e Evidence) HasHighSignal() bool { return e.highSignal }

// IsEmpty reports whether no term matched at all.
func (e Evidence) IsEmpty() bool { return len(e.terms) == 0 }
