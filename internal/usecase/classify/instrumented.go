package classify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/label"
	"github.com/trinetra-labs/trinetra/internal/metrics"
)

// InstrumentedScorer wraps a Scorer with request metrics and debug
// logging. Degradation metrics (fallbacks) are recorded inside the
// scorer implementations, which are the only layer that can see them.
type InstrumentedScorer struct {
	inner  Scorer
	driver string
	logger *zap.Logger
}

// NewInstrumentedScorer wraps a scorer with observability.
func NewInstrumentedScorer(inner Scorer, driver string, logger *zap.Logger) *InstrumentedScorer {
	return &InstrumentedScorer{inner: inner, driver: driver, logger: logger}
}

// Score delegates to the inner scorer and records duration and outcome.
func (p *InstrumentedScorer) Score(
	ctx context.Context, text string, labels []category.Category,
) (label.ScoreSet, error) {
	start := time.Now()

	set, err := p.inner.Score(ctx, text, labels)

	duration := time.Since(start)

	if err != nil {
		metrics.ScorerRequestsTotal.WithLabelValues(p.driver, "error").Inc()
		p.logger.Error("Scorer invocation failed",
			zap.String("driver", p.driver),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return label.ScoreSet{}, err
	}

	metrics.ScorerRequestsTotal.WithLabelValues(p.driver, "success").Inc()
	metrics.ScorerRequestDuration.WithLabelValues(p.driver).Observe(duration.Seconds())

	best, bestScore := set.Best()
	p.logger.Debug("Scorer invocation completed",
		zap.String("driver", p.driver),
		zap.Duration("duration", duration),
		zap.String("best_label", string(best)),
		zap.Float64("best_score", bestScore),
	)
	return set, nil
}
