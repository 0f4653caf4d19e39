// Package openai implements the model-backed semantic scorer on top of
// an OpenAI-compatible chat completion API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/label"
	"github.com/trinetra-labs/trinetra/internal/metrics"
)

const (
	driverName = "zeroshot"

	// Confidence assigned to the fallback label when the model is
	// unavailable or returns garbage. Classification must always
	// complete, so scorer failures degrade instead of propagating.
	degradedConfidence = 0.5

	emptyTextConfidence = 0.2
)

const systemPrompt = `You are a zero-shot text classifier. ` +
	`Rate how relevant the given text is to each candidate label. ` +
	`Respond with a single JSON object mapping every label to a number ` +
	`between 0 and 1. Scores are independent relevances and need not sum to 1.`

// Scorer scores candidate labels via zero-shot natural-language
// inference. The underlying client is initialized lazily, at most once
// per process; go-openai clients are safe for concurrent use, so calls
// are not serialized.
type Scorer struct {
	cfg    Config
	cats   category.Set
	logger *zap.Logger

	initOnce sync.Once
	client   *openai.Client
}

// Config holds the inference provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// New creates a model-backed scorer. The model is not loaded until the
// first Score or HealthCheck call.
func New(cfg Config, cats category.Set, logger *zap.Logger) *Scorer {
	return &Scorer{cfg: cfg, cats: cats, logger: logger}
}

func (s *Scorer) getClient() *openai.Client {
	s.initOnce.Do(func() {
		clientCfg := openai.DefaultConfig(s.cfg.APIKey)
		if s.cfg.BaseURL != "" {
			clientCfg.BaseURL = s.cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	})
	return s.client
}

// Score rates every candidate label in [0,1] by delegating to the
// configured model. Any load, inference, or parse failure degrades to
// the fallback label at a fixed confidence; Score never returns an
// error for model trouble.
func (s *Scorer) Score(
	ctx context.Context, text string, labels []category.Category,
) (label.ScoreSet, error) {
	if strings.TrimSpace(text) == "" {
		return label.Fallback(labels, s.cats.Fallback(), emptyTextConfidence)
	}

	start := time.Now()
	resp, err := s.getClient().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(text, labels)},
		},
	})
	duration := time.Since(start)

	if err != nil {
		metrics.ScorerFallbacksTotal.WithLabelValues(driverName, "api_error").Inc()
		s.logger.Warn("Zero-shot inference failed, degrading to default",
			zap.String("model", s.cfg.Model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return label.Fallback(labels, s.cats.Fallback(), degradedConfidence)
	}

	if len(resp.Choices) == 0 {
		metrics.ScorerFallbacksTotal.WithLabelValues(driverName, "empty_response").Inc()
		return label.Fallback(labels, s.cats.Fallback(), degradedConfidence)
	}

	scores, err := parseScores(resp.Choices[0].Message.Content, labels)
	if err != nil {
		metrics.ScorerFallbacksTotal.WithLabelValues(driverName, "parse_error").Inc()
		s.logger.Warn("Unparseable zero-shot response, degrading to default",
			zap.String("model", s.cfg.Model),
			zap.Error(err),
		)
		return label.Fallback(labels, s.cats.Fallback(), degradedConfidence)
	}

	set, err := label.New(labels, scores)
	if err != nil {
		// parseScores clamps, so this only fires on an empty label set.
		return label.ScoreSet{}, fmt.Errorf("build score set: %w", err)
	}
	return set, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Scorer) HealthCheck(ctx context.Context) error {
	if _, err := s.getClient().ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// buildPrompt renders the candidate labels and the text to classify.
func buildPrompt(text string, labels []category.Category) string {
	var b strings.Builder
	b.WriteString("Labels:\n")
	for _, l := range labels {
		b.WriteString("- ")
		b.WriteString(string(l))
		b.WriteByte('\n')
	}
	b.WriteString("\nText:\n")
	b.WriteString(text)
	return b.String()
}

// parseScores extracts per-label scores from the model's JSON reply.
// Labels the model omitted stay 0; out-of-range values are clamped.
func parseScores(content string, labels []category.Category) (map[category.Category]float64, error) {
	var raw map[string]float64
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	scores := make(map[category.Category]float64, len(labels))
	for _, l := range labels {
		scores[l] = min(max(raw[string(l)], 0), 1)
	}
	return scores, nil
}
