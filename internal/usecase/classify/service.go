// Package classify implements the decision engine: it combines keyword
// evidence with semantic scores into one final category and calibrated
// confidence.
package classify

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/evidence"
	"github.com/trinetra-labs/trinetra/internal/domain/keyword"
	"github.com/trinetra-labs/trinetra/internal/domain/label"
	"github.com/trinetra-labs/trinetra/internal/domain/verdict"
	"github.com/trinetra-labs/trinetra/internal/metrics"
	"github.com/trinetra-labs/trinetra/internal/scorer/signal"
)

// Confidence caps and floors of the decision policy. Keyword evidence is
// the trusted high-precision signal: the more independent evidence
// groups fire, the higher the cap.
const (
	capMultiGroup  = 0.95
	capHighSignal  = 0.90
	capSingleGroup = 0.80

	// A single keyword group is still a meaningful positive signal even
	// when the semantic score is weak.
	floorSingleGroup = 0.60

	// Benign confidence scales with input length: short texts carry
	// less signal either way.
	shortTextConfidence  = 0.30
	mediumTextConfidence = 0.40
	longTextConfidence   = 0.50

	shortTextLimit  = 30
	mediumTextLimit = 120

	// Substituted when a scorer breaks its no-error contract.
	degradedSemanticConfidence = 0.50
)

// Rule labels for metrics.
const (
	ruleMultiGroup  = "multi_group"
	ruleHighSignal  = "high_signal"
	ruleSingleGroup = "single_group"
	ruleSemantic    = "semantic"
	ruleDefault     = "default"
)

// Service is the classification engine. It holds only the read-only
// registry, the category set, and the scorer, so Classify is safe to
// call concurrently.
type Service struct {
	registry *keyword.Registry
	cats     category.Set
	scorer   Scorer
}

// New creates the engine. The registry and scorer are mandatory; a nil
// dependency is a configuration error.
func New(registry *keyword.Registry, cats category.Set, scorer Scorer) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: nil keyword registry", domain.ErrInvalidConfig)
	}
	if scorer == nil {
		return nil, fmt.Errorf("%w: nil scorer", domain.ErrInvalidConfig)
	}
	return &Service{registry: registry, cats: cats, scorer: scorer}, nil
}

// Categories returns the configured category set.
func (s *Service) Categories() category.Set { return s.cats }

// Classify runs the full hybrid pipeline on one text. Deterministic for
// a fixed registry and scorer; empty or whitespace text classifies as
// the benign default, never an error. The only rejected input is a
// non-UTF-8 byte sequence.
func (s *Service) Classify(ctx context.Context, text string) (verdict.Result, error) {
	if !utf8.ValidString(text) {
		return verdict.Result{}, fmt.Errorf("%w: text is not valid UTF-8", domain.ErrInvalidInput)
	}

	start := time.Now()

	matches := s.registry.Lookup(text)
	ev := evidence.Aggregate(matches)
	for _, m := range matches {
		metrics.KeywordMatchesTotal.WithLabelValues(m.Group).Inc()
	}

	scores, err := s.scorer.Score(ctx, text, s.cats.Labels())
	if err != nil {
		// Scorers are supposed to degrade internally; if one errors
		// anyway, substitute the degraded shape rather than failing.
		scores, err = label.Fallback(s.cats.Labels(), s.cats.Fallback(), degradedSemanticConfidence)
		if err != nil {
			return verdict.Result{}, fmt.Errorf("fallback scores: %w", err)
		}
	}
	semLabel, semConf := scores.Best()

	cat, conf, rule := s.decide(text, ev, semLabel, semConf)

	metrics.ClassificationsTotal.WithLabelValues(string(cat), rule).Inc()
	metrics.ClassificationDuration.Observe(time.Since(start).Seconds())

	return verdict.New(cat, conf, ev, semLabel, semConf), nil
}

// decide applies the decision policy. Rules are evaluated in order;
// the first match wins.
func (s *Service) decide(
	text string, ev evidence.Evidence,
	semLabel category.Category, semConf float64,
) (category.Category, float64, string) {
	boost := ev.Boost()

	switch {
	case ev.CategoriesMatched() >= 2:
		return s.cats.Target(), min(capMultiGroup, semConf+boost), ruleMultiGroup

	case ev.HasHighSignal():
		return s.cats.Target(), min(capHighSignal, semConf+boost), ruleHighSignal

	case ev.CategoriesMatched() == 1:
		return s.cats.Target(),
			min(capSingleGroup, max(semConf+boost, floorSingleGroup)),
			ruleSingleGroup
	}

	// No lexical evidence at all. The semantic scorer alone may only
	// originate a positive verdict when an independent secondary signal
	// corroborates it; otherwise a naive semantic match on plain text
	// would flood the system with spurious positives.
	if signal.HasPrice(text) || signal.HasContactIntent(text) || signal.HasDrugToken(text) {
		return semLabel, semConf, ruleSemantic
	}
	return s.cats.Fallback(), lengthConfidence(text), ruleDefault
}

// lengthConfidence maps input length to benign confidence.
func lengthConfidence(text string) float64 {
	switch n := utf8.RuneCountInString(text); {
	case n < shortTextLimit:
		return shortTextConfidence
	case n < mediumTextLimit:
		return mediumTextConfidence
	default:
		return longTextConfidence
	}
}
