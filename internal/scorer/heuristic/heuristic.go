// Package heuristic implements the dependency-free semantic scorer: a
// keyword-density approximation of label relevance used when no external
// model is configured, and as the shape the model-backed scorer degrades
// to.
package heuristic

import (
	"context"
	"strings"

	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/label"
	"github.com/trinetra-labs/trinetra/internal/scorer/signal"
)

// Per-keyword contribution bounds and target-label bonuses.
const (
	keywordBase   = 0.05
	keywordCap    = 0.15
	drugTermBonus = 0.12
	priceBonus    = 0.12
	contactBonus  = 0.08
	fallbackScore = 0.20
	lengthDivisor = 200.0
)

// labelKeywords maps each stock label to indicative free-text keywords.
var labelKeywords = map[category.Category][]string{
	category.DrugSale: {
		"sell", "sale", "price", "rate", "discount", "delivery", "stock",
		"supply", "available", "in stock", "dm", "whatsapp", "bulk",
		"wholesale", "cash on delivery", "stealth", "doorstep", "express",
		"guarantee", "list", "order",
	},
	category.Normal: {
		"hello", "hi", "thanks", "information", "news", "update",
		"discussion", "general", "chat", "topic", "share", "link",
	},
	category.Spam: {
		"free", "click", "subscribe", "follow", "promo", "offer", "win",
		"limited", "contest", "bonus", "referral", "ad", "advertisement",
	},
	category.Other: {},
}

// Scorer scores candidate labels with bounded per-keyword increments and
// fixed secondary-signal bonuses for the target label. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	cats category.Set
}

// New creates a heuristic scorer over the given category set.
func New(cats category.Set) *Scorer {
	return &Scorer{cats: cats}
}

// Score rates every candidate label in [0,1]. Empty or whitespace-only
// text yields the fallback label at a low fixed confidence. If no label
// earns any score, the fallback label is assigned a small nonzero score
// so downstream logic never sees an all-zero distribution.
func (s *Scorer) Score(
	_ context.Context, text string, labels []category.Category,
) (label.ScoreSet, error) {
	if strings.TrimSpace(text) == "" {
		return label.Fallback(labels, s.cats.Fallback(), fallbackScore)
	}

	folded := strings.ToLower(text)
	scores := make(map[category.Category]float64, len(labels))
	allZero := true

	for _, l := range labels {
		score := 0.0
		for _, kw := range labelKeywords[l] {
			if strings.Contains(folded, kw) {
				// Longer keywords are more specific, so they earn more,
				// up to a saturating cap per keyword.
				score += min(keywordBase+float64(len(kw))/lengthDivisor, keywordCap)
			}
		}
		if l == s.cats.Target() {
			score += float64(signal.CountDrugTokens(text)) * drugTermBonus
			if signal.HasPrice(text) {
				score += priceBonus
			}
			if signal.HasContactIntent(text) {
				score += contactBonus
			}
		}
		score = min(max(score, 0), 1)
		if score > 0 {
			allZero = false
		}
		scores[l] = score
	}

	if allZero {
		return label.Fallback(labels, s.cats.Fallback(), fallbackScore)
	}
	return label.New(labels, scores)
}

// HealthCheck always succeeds: the heuristic scorer has no external
// dependency.
func (s *Scorer) HealthCheck(context.Context) error { return nil }
