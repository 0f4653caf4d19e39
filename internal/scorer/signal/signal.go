// Package signal detects the secondary (non-lexical-registry) heuristics
// the decision policy uses to gate semantic-only verdicts: currency/price
// patterns, contact/transaction intent, and exact drug-name tokens from
// the scorer's own dictionary.
package signal

import (
	"regexp"
	"strings"
)

var (
	// Currency symbols next to digits, bare amounts with a unit, or
	// explicit price/rate talk.
	pricePattern = regexp.MustCompile(
		`[$₹£€]\s*\d|\b\d+\s*(?:rs|inr|usd|k)\b|\brs\.?\s*\d|\bprice\b|\brate\b`)

	contactPattern = regexp.MustCompile(
		`\b(?:dm|whatsapp|telegram|contact|deal|order)s?\b`)

	// Single tokens need word boundaries ("acid" must not fire inside
	// "acidity" is too strict for this list, but "pot" inside "teapot"
	// must not fire); multi-word phrases match as substrings.
	drugTokenPatterns []*regexp.Regexp
	drugPhrases       []string
)

// drugTokens is the scorer-internal drug dictionary, separate from the
// configurable keyword registry.
var drugTokens = []string{
	"mdma", "lsd", "mephedrone", "cocaine", "heroin", "cannabis", "marijuana",
	"ganja", "charas", "hash", "hashish", "weed", "pot", "ecstasy", "molly",
	"meth", "crystal meth", "acid", "brown sugar", "white powder", "maal",
}

func init() {
	for _, t := range drugTokens {
		if strings.Contains(t, " ") {
			drugPhrases = append(drugPhrases, t)
			continue
		}
		drugTokenPatterns = append(drugTokenPatterns,
			regexp.MustCompile(`\b`+regexp.QuoteMeta(t)+`\b`))
	}
}

// HasPrice reports whether text contains a currency or price pattern.
func HasPrice(text string) bool {
	return pricePattern.MatchString(strings.ToLower(text))
}

// HasContactIntent reports whether text contains a contact or
// transaction-intent phrase.
func HasContactIntent(text string) bool {
	return contactPattern.MatchString(strings.ToLower(text))
}

// HasDrugToken reports whether text contains an exact drug-name token.
func HasDrugToken(text string) bool {
	folded := strings.ToLower(text)
	for _, p := range drugTokenPatterns {
		if p.MatchString(folded) {
			return true
		}
	}
	for _, phrase := range drugPhrases {
		if strings.Contains(folded, phrase) {
			return true
		}
	}
	return false
}

// CountDrugTokens returns how many distinct dictionary entries occur in
// text. Used by the heuristic scorer to accumulate per-term bonuses.
func CountDrugTokens(text string) int {
	folded := strings.ToLower(text)
	n := 0
	for _, p := range drugTokenPatterns {
		if p.MatchString(folded) {
			n++
		}
	}
	for _, phrase := range drugPhrases {
		if strings.Contains(folded, phrase) {
			n++
		}
	}
	return n
}
