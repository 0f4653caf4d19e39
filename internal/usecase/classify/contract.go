package classify

import (
	"context"

	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/label"
)

// Scorer produces semantic relevance scores for candidate labels.
// Conforming implementations degrade internally (fallback label, fixed
// confidence) instead of failing on model trouble; a returned error is
// treated as a last-resort degradation by the engine, never surfaced.
type Scorer interface {
	Score(ctx context.Context, text string, labels []category.Category) (label.ScoreSet, error)
}
