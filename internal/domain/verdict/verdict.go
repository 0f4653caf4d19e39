// Package verdict defines the immutable classification result record.
package verdict

import (
	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/evidence"
)

// Result is the structured output of one classify call: final category,
// calibrated confidence, the lexical evidence behind it, and the raw
// semantic sub-signals. Built fresh per input text, never mutated.
type Result struct {
	category           category.Category
	confidence         float64
	evidence           evidence.Evidence
	semanticLabel      category.Category
	semanticConfidence float64
}

// New creates a classification result.
func New(
	cat category.Category, confidence float64, ev evidence.Evidence,
	semanticLabel category.Category, semanticConfidence float64,
) Result {
	return Result{
		category:           cat,
		confidence:         confidence,
		evidence:           ev,
		semanticLabel:      semanticLabel,
		semanticConfidence: semanticConfidence,
	}
}

// Category returns the final classification outcome.
func (r Result) Category() category.Category { return r.category }

// Confidence returns the calibrated confidence in [0,1].
func (r Result) Confidence() float64 { return r.confidence }

// Evidence returns the lexical evidence found in the text.
func (r Result) Evidence() evidence.Evidence { return r.evidence }

// SemanticLabel returns the semantic scorer's own best label.
func (r Result) SemanticLabel() category.Category { return r.semanticLabel }

// SemanticConfidence returns the semantic scorer's own best score.
func (r Result) SemanticConfidence() float64 { return r.semanticConfidence }
