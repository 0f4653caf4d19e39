// Package result persists classification records and the alerts derived
// from them.
package result

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/verdict"
)

// Store is the narrow storage interface this repository consumes.
type Store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Record is one persisted classification outcome for a channel message.
type Record struct {
	MessageID          int64     `json:"message_id"`
	SenderID           int64     `json:"sender_id"`
	Date               time.Time `json:"date"`
	Text               string    `json:"text"`
	Category           string    `json:"category"`
	Confidence         float64   `json:"confidence"`
	MatchedTerms       []string  `json:"matched_terms"`
	SemanticLabel      string    `json:"semantic_label"`
	SemanticConfidence float64   `json:"semantic_confidence"`
	ProcessedAt        time.Time `json:"processed_at"`
}

// Alert is a persisted target-category detection awaiting review.
type Alert struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	MessageID  int64     `json:"message_id"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Alert statuses.
const (
	AlertStatusNew       = "new"
	AlertStatusDismissed = "dismissed"
)

// Repo stores records newest-first in a per-channel list, capped at
// maxPerChannel, and alerts as individual hashes behind a global index.
type Repo struct {
	store         Store
	prefix        string
	maxPerChannel int64
	now           func() time.Time
}

// New creates a result repository. maxPerChannel <= 0 disables capping.
func New(store Store, prefix string, maxPerChannel int) *Repo {
	return &Repo{
		store:         store,
		prefix:        prefix,
		maxPerChannel: int64(maxPerChannel),
		now:           time.Now,
	}
}

// WithClock overrides the timestamp source (tests).
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

func (r *Repo) resultsKey(channelID string) string {
	return r.prefix + "results:" + channelID
}

func (r *Repo) alertKey(id string) string {
	return r.prefix + "alert:" + id
}

func (r *Repo) alertIndexKey() string {
	return r.prefix + "alerts"
}

// SaveResult persists one classification outcome for a channel message.
func (r *Repo) SaveResult(
	ctx context.Context, channelID string, msg domain.Message, res verdict.Result,
) error {
	rec := Record{
		MessageID:          msg.ID,
		SenderID:           msg.Sender,
		Date:               msg.Date,
		Text:               msg.Text,
		Category:           string(res.Category()),
		Confidence:         res.Confidence(),
		MatchedTerms:       res.Evidence().Terms(),
		SemanticLabel:      string(res.SemanticLabel()),
		SemanticConfidence: res.SemanticConfidence(),
		ProcessedAt:        r.now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	key := r.resultsKey(channelID)
	if err := r.store.LPush(ctx, key, string(data)); err != nil {
		return fmt.Errorf("push record: %w", err)
	}
	if r.maxPerChannel > 0 {
		if err := r.store.LTrim(ctx, key, 0, r.maxPerChannel-1); err != nil {
			return fmt.Errorf("trim records: %w", err)
		}
	}
	return nil
}

// ListResults returns up to limit records for a channel, newest first.
// limit <= 0 returns everything retained.
func (r *Repo) ListResults(ctx context.Context, channelID string, limit int) ([]Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	items, err := r.store.LRange(ctx, r.resultsKey(channelID), 0, stop)
	if err != nil {
		return nil, fmt.Errorf("range records: %w", err)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveAlert raises a new alert for a target-category detection and
// returns its id.
func (r *Repo) SaveAlert(
	ctx context.Context, channelID string, msg domain.Message, res verdict.Result,
) (string, error) {
	id := uuid.NewString()
	fields := map[string]string{
		"channel_id": channelID,
		"message_id": strconv.FormatInt(msg.ID, 10),
		"text":       msg.Text,
		"confidence": strconv.FormatFloat(res.Confidence(), 'f', -1, 64),
		"status":     AlertStatusNew,
		"created_at": r.now().UTC().Format(time.RFC3339Nano),
	}
	if err := r.store.HSet(ctx, r.alertKey(id), fields); err != nil {
		return "", fmt.Errorf("save alert: %w", err)
	}
	if err := r.store.LPush(ctx, r.alertIndexKey(), id); err != nil {
		return "", fmt.Errorf("index alert: %w", err)
	}
	return id, nil
}

// ListAlerts returns alerts newest first, optionally filtered by status.
// Index entries whose hash has expired or been deleted are skipped.
func (r *Repo) ListAlerts(ctx context.Context, status string) ([]Alert, error) {
	ids, err := r.store.LRange(ctx, r.alertIndexKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("range alert index: %w", err)
	}

	alerts := make([]Alert, 0, len(ids))
	for _, id := range ids {
		fields, err := r.store.HGetAll(ctx, r.alertKey(id))
		if err != nil {
			return nil, fmt.Errorf("read alert %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		a := alertFromFields(id, fields)
		if status != "" && a.Status != status {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// DismissAlert marks an alert as reviewed.
func (r *Repo) DismissAlert(ctx context.Context, id string) error {
	ok, err := r.store.Exists(ctx, r.alertKey(id))
	if err != nil {
		return fmt.Errorf("check alert: %w", err)
	}
	if !ok {
		return fmt.Errorf("alert %s: %w", id, domain.ErrAlertNotFound)
	}
	if err := r.store.HSet(ctx, r.alertKey(id), map[string]string{
		"status": AlertStatusDismissed,
	}); err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	return nil
}

func alertFromFields(id string, fields map[string]string) Alert {
	messageID, _ := strconv.ParseInt(fields["message_id"], 10, 64)
	confidence, _ := strconv.ParseFloat(fields["confidence"], 64)
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return Alert{
		ID:         id,
		ChannelID:  fields["channel_id"],
		MessageID:  messageID,
		Text:       fields["text"],
		Confidence: confidence,
		Status:     fields["status"],
		CreatedAt:  createdAt,
	}
}
