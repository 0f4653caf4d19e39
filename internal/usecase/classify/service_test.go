package classify

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/keyword"
	"github.com/trinetra-labs/trinetra/internal/domain/label"
)

type stubScorer struct {
	scores map[category.Category]float64
	err    error
	calls  int
}

func (s *stubScorer) Score(
	_ context.Context, _ string, labels []category.Category,
) (label.ScoreSet, error) {
	s.calls++
	if s.err != nil {
		return label.ScoreSet{}, s.err
	}
	set, err := label.New(labels, s.scores)
	if err != nil {
		return label.ScoreSet{}, err
	}
	return set, nil
}

func newEngine(t *testing.T, scorer Scorer) *Service {
	t.Helper()
	registry, err := keyword.NewRegistry(keyword.DefaultGroups())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	svc, err := New(registry, category.DefaultSet(), scorer)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return svc
}

func approx(got, want float64) bool { return math.Abs(got-want) < 1e-9 }

func TestNew_NilDependencies(t *testing.T) {
	registry, _ := keyword.NewRegistry(keyword.DefaultGroups())

	if _, err := New(nil, category.DefaultSet(), &stubScorer{}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("nil registry: got %v, want ErrInvalidConfig", err)
	}
	if _, err := New(registry, category.DefaultSet(), nil); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("nil scorer: got %v, want ErrInvalidConfig", err)
	}
}

func TestClassify_MultiGroupEvidence(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.DrugSale: 0.5,
	}})

	res, err := svc.Classify(context.Background(),
		"MDMA available, home delivery, cash on delivery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Category() != category.DrugSale {
		t.Errorf("category: got %q, want %q", res.Category(), category.DrugSale)
	}
	if res.Confidence() < 0.90 {
		t.Errorf("multi-group confidence %v below 0.90", res.Confidence())
	}
	if res.Evidence().CategoriesMatched() < 2 {
		t.Errorf("expected at least two evidence groups, got %d",
			res.Evidence().CategoriesMatched())
	}
	if len(res.Evidence().Terms()) == 0 {
		t.Error("expected matched terms in the result")
	}
}

func TestClassify_MultiGroupCap(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.DrugSale: 0.9,
	}})

	res, err := svc.Classify(context.Background(),
		"MDMA available, home delivery, cash on delivery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !approx(res.Confidence(), 0.95) {
		t.Errorf("confidence: got %v, want 0.95 cap", res.Confidence())
	}
}

func TestClassify_HighSignalDrugName(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.DrugSale: 0.9,
	}})

	res, err := svc.Classify(context.Background(), "got mdma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Category() != category.DrugSale {
		t.Errorf("category: got %q, want %q", res.Category(), category.DrugSale)
	}
	if !approx(res.Confidence(), 0.90) {
		t.Errorf("confidence: got %v, want 0.90 cap", res.Confidence())
	}
	if !res.Evidence().HasHighSignal() {
		t.Error("expected high-signal evidence")
	}
}

func TestClassify_SingleGroupFloor(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.Normal: 0.3,
	}})

	// One sales_terms hit, weak semantic score: the floor applies.
	res, err := svc.Classify(context.Background(), "available now")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Category() != category.DrugSale {
		t.Errorf("category: got %q, want %q", res.Category(), category.DrugSale)
	}
	if !approx(res.Confidence(), 0.60) {
		t.Errorf("confidence: got %v, want the 0.60 floor", res.Confidence())
	}
}

func TestClassify_SingleGroupCap(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.DrugSale: 0.9,
	}})

	res, err := svc.Classify(context.Background(), "available now")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !approx(res.Confidence(), 0.80) {
		t.Errorf("confidence: got %v, want 0.80 cap", res.Confidence())
	}
}

func TestClassify_SemanticAloneCannotConvict(t *testing.T) {
	// The scorer is certain, but plain conversational text with no
	// keywords and no secondary signals stays benign.
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.DrugSale: 0.97,
	}})

	res, err := svc.Classify(context.Background(), "Great party last night!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Category() != category.Normal {
		t.Errorf("category: got %q, want %q", res.Category(), category.Normal)
	}
	if res.Confidence() > 0.50 {
		t.Errorf("benign confidence %v above 0.50", res.Confidence())
	}
	if res.SemanticLabel() != category.DrugSale {
		t.Errorf("semantic label must be preserved, got %q", res.SemanticLabel())
	}
}

func TestClassify_SemanticVerdictWithSecondarySignal(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.DrugSale: 0.7,
	}})

	// No registry hit, but contact intent corroborates the scorer.
	res, err := svc.Classify(context.Background(), "dm me tonight")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Category() != category.DrugSale {
		t.Errorf("category: got %q, want %q", res.Category(), category.DrugSale)
	}
	if !approx(res.Confidence(), 0.7) {
		t.Errorf("confidence: got %v, want the raw semantic 0.7", res.Confidence())
	}
}

func TestClassify_LengthScaledBenignConfidence(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.Normal: 0.4,
	}})

	cases := []struct {
		name string
		text string
		want float64
	}{
		{"short", "hello there", 0.30},
		{"medium", strings.Repeat("xy ", 20), 0.40},
		{"long", strings.Repeat("xy ", 50), 0.50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Classify(context.Background(), tc.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Category() != category.Normal {
				t.Errorf("category: got %q, want normal", res.Category())
			}
			if !approx(res.Confidence(), tc.want) {
				t.Errorf("confidence: got %v, want %v", res.Confidence(), tc.want)
			}
		})
	}
}

func TestClassify_EmptyText(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.Normal: 0.2,
	}})

	res, err := svc.Classify(context.Background(), "")
	if err != nil {
		t.Fatalf("empty text must classify, got error: %v", err)
	}

	if res.Category() != category.Normal {
		t.Errorf("category: got %q, want normal", res.Category())
	}
	if !approx(res.Confidence(), 0.30) {
		t.Errorf("confidence: got %v, want 0.30", res.Confidence())
	}
	if !res.Evidence().IsEmpty() {
		t.Error("empty text must produce empty evidence")
	}
}

func TestClassify_RejectsInvalidUTF8(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{}})

	_, err := svc.Classify(context.Background(), string([]byte{0xff, 0xfe}))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestClassify_ScorerErrorStillClassifies(t *testing.T) {
	svc := newEngine(t, &stubScorer{err: errors.New("scorer exploded")})

	res, err := svc.Classify(context.Background(), "got mdma")
	if err != nil {
		t.Fatalf("scorer failure must not fail classification: %v", err)
	}

	// Degraded semantic confidence (0.5) + high-signal evidence.
	if res.Category() != category.DrugSale {
		t.Errorf("category: got %q, want %q", res.Category(), category.DrugSale)
	}
	if !approx(res.Confidence(), 0.80) {
		t.Errorf("confidence: got %v, want 0.80", res.Confidence())
	}
}

func TestClassify_Deterministic(t *testing.T) {
	svc := newEngine(t, &stubScorer{scores: map[category.Category]float64{
		category.DrugSale: 0.6,
	}})

	const text = "maal available, ₹500, whatsapp for details"
	first, err := svc.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Category() != second.Category() || first.Confidence() != second.Confidence() {
		t.Errorf("same input diverged: %q/%v vs %q/%v",
			first.Category(), first.Confidence(), second.Category(), second.Confidence())
	}
}
