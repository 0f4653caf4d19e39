// Package keyword holds the curated term registry used for deterministic
// lexical matching. The registry is built once at engine construction and
// is read-only afterwards.
package keyword

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trinetra-labs/trinetra/internal/domain"
)

// Group is one evidence category of the registry: a named, weighted list
// of terms. Symbolic groups (emoji, markers) match as raw substrings;
// HighSignal marks the hand-curated drug-name group the decision policy
// trusts on its own.
type Group struct {
	Name       string
	Weight     float64
	Symbolic   bool
	HighSignal bool
	Terms      []string
}

// Match is a single term hit found in a text.
type Match struct {
	Term       string // original casing, for display
	Group      string
	Weight     float64
	Symbolic   bool
	HighSignal bool
}

type entry struct {
	term    string
	folded  string
	pattern *regexp.Regexp // nil => substring match
}

type group struct {
	name       string
	weight     float64
	symbolic   bool
	highSignal bool
	entries    []entry
}

// Registry maps evidence categories to their term lists.
type Registry struct {
	groups []group
}

// NewRegistry validates and compiles the given groups. Group names must be
// unique and non-empty, weights must lie in [0,1], and at least one group
// must carry at least one term. Duplicate terms within a group are dropped
// silently.
func NewRegistry(groups []Group) (*Registry, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no keyword groups", domain.ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(groups))
	compiled := make([]group, 0, len(groups))
	total := 0

	for _, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: keyword group with empty name", domain.ErrInvalidConfig)
		}
		if _, dup := seen[g.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate keyword group %q", domain.ErrInvalidConfig, g.Name)
		}
		seen[g.Name] = struct{}{}
		if g.Weight < 0 || g.Weight > 1 {
			return nil, fmt.Errorf("%w: group %q weight %v outside [0,1]",
				domain.ErrInvalidConfig, g.Name, g.Weight)
		}

		cg := group{
			name:       g.Name,
			weight:     g.Weight,
			symbolic:   g.Symbolic,
			highSignal: g.HighSignal,
		}
		terms := make(map[string]struct{}, len(g.Terms))
		for _, term := range g.Terms {
			folded := strings.ToLower(strings.TrimSpace(term))
			if folded == "" {
				continue
			}
			if _, dup := terms[folded]; dup {
				continue
			}
			terms[folded] = struct{}{}

			e := entry{term: strings.TrimSpace(term), folded: folded}
			// Single-token terms match on word boundaries so that e.g.
			// "pot" never fires inside "teapot". Phrases and symbolic
			// markers match as case-insensitive substrings.
			if !g.Symbolic && !strings.Contains(folded, " ") {
				e.pattern = regexp.MustCompile(`\b` + regexp.QuoteMeta(folded) + `\b`)
			}
			cg.entries = append(cg.entries, e)
		}
		total += len(cg.entries)
		compiled = append(compiled, cg)
	}

	if total == 0 {
		return nil, fmt.Errorf("%w: keyword registry has no terms", domain.ErrInvalidConfig)
	}
	return &Registry{groups: compiled}, nil
}

// Lookup scans text against every group and returns all distinct term
// hits in registry order. Matching is case-insensitive and each term is
// reported at most once regardless of how often it occurs. Empty text
// yields no matches.
func (r *Registry) Lookup(text string) []Match {
	if text == "" {
		return nil
	}
	folded := strings.ToLower(text)

	var matches []Match
	for _, g := range r.groups {
		for _, e := range g.entries {
			var hit bool
			if e.pattern != nil {
				hit = e.pattern.MatchString(folded)
			} else {
				hit = strings.Contains(folded, e.folded)
			}
			if hit {
				matches = append(matches, Match{
					Term:       e.term,
					Group:      g.name,
					Weight:     g.weight,
					Symbolic:   g.symbolic,
					HighSignal: g.highSignal,
				})
			}
		}
	}
	return matches
}

// Groups returns the configured group names in order.
func (r *Registry) Groups() []string {
	names := make([]string, len(r.groups))
	for i, g := range r.groups {
		names[i] = g.name
	}
	return names
}
