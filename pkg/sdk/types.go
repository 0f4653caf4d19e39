package trinetra

import "time"

// Alert statuses.
const (
	AlertStatusNew       = "new"
	AlertStatusDismissed = "dismissed"
)

// Channel statuses.
const (
	ChannelStatusActive    = "active"
	ChannelStatusMonitored = "monitored"
	ChannelStatusError     = "error"
)

// Result is the outcome of one classification call.
type Result struct {
	Category           string
	Confidence         float64
	MatchedTerms       []string
	CategoriesMatched  int
	HighSignal         bool
	SemanticLabel      string
	SemanticConfidence float64
}

// Message is one channel message to classify.
type Message struct {
	ID     int64
	Sender int64
	Date   time.Time
	Text   string
}

// Channel is a monitored channel.
type Channel struct {
	ID            string
	Link          string
	Name          string
	Status        string
	AddedAt       time.Time
	LastMonitored time.Time
}

// Record is one persisted classification outcome for a channel message.
type Record struct {
	MessageID          int64
	SenderID           int64
	Date               time.Time
	Text               string
	Category           string
	Confidence         float64
	MatchedTerms       []string
	SemanticLabel      string
	SemanticConfidence float64
	ProcessedAt        time.Time
}

// Alert is a flagged detection awaiting review.
type Alert struct {
	ID         string
	ChannelID  string
	MessageID  int64
	Text       string
	Confidence float64
	Status     string
	CreatedAt  time.Time
}

// ScanSummary reports the outcome of one scan pass.
type ScanSummary struct {
	Processed int
	Flagged   int
	Skipped   int
}

// KeywordGroup defines one evidence group for the keyword registry.
type KeywordGroup struct {
	Name       string
	Weight     float64
	Symbolic   bool
	HighSignal bool
	Terms      []string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}
