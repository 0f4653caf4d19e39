// Package monitor runs classification over batches of channel messages
// supplied by an ingestion collaborator, persists the outcomes, and
// raises alerts for target-category detections.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/logger"
	"github.com/trinetra-labs/trinetra/internal/metrics"
	"github.com/trinetra-labs/trinetra/internal/repository/channel"
	resultrepo "github.com/trinetra-labs/trinetra/internal/repository/result"
)

// Summary reports the outcome of one scan pass.
type Summary struct {
	Processed int `json:"processed"`
	Flagged   int `json:"flagged"`
	Skipped   int `json:"skipped"`
}

// Service classifies message batches for a channel.
type Service struct {
	classifier Classifier
	results    ResultStore
	channels   ChannelStore
	target     category.Category
}

// New creates a monitor service. target is the category that raises
// alerts.
func New(
	classifier Classifier, results ResultStore, channels ChannelStore,
	target category.Category,
) *Service {
	return &Service{
		classifier: classifier,
		results:    results,
		channels:   channels,
		target:     target,
	}
}

// Scan classifies every message in the batch, persists each result, and
// raises an alert per target-category detection. Messages with empty or
// invalid text are skipped, not errors. The channel status is updated to
// monitored on success and error when persistence fails.
func (s *Service) Scan(
	ctx context.Context, channelID string, msgs []domain.Message,
) (Summary, error) {
	log := logger.FromContext(ctx)

	var sum Summary
	for _, msg := range msgs {
		if strings.TrimSpace(msg.Text) == "" {
			sum.Skipped++
			continue
		}

		res, err := s.classifier.Classify(ctx, msg.Text)
		if err != nil {
			sum.Skipped++
			log.Warn("Skipping unclassifiable message",
				zap.String("channel_id", channelID),
				zap.Int64("message_id", msg.ID),
				zap.Error(err),
			)
			continue
		}

		if err := s.results.SaveResult(ctx, channelID, msg, res); err != nil {
			s.markError(ctx, channelID)
			return sum, fmt.Errorf("save result: %w", err)
		}
		sum.Processed++

		if res.Category() == s.target {
			sum.Flagged++
			alertID, err := s.results.SaveAlert(ctx, channelID, msg, res)
			if err != nil {
				s.markError(ctx, channelID)
				return sum, fmt.Errorf("save alert: %w", err)
			}
			metrics.AlertsCreatedTotal.Inc()
			log.Info("Target-category message detected",
				zap.String("channel_id", channelID),
				zap.Int64("message_id", msg.ID),
				zap.String("alert_id", alertID),
				zap.Float64("confidence", res.Confidence()),
				zap.Strings("matched_terms", res.Evidence().Terms()),
			)
		}
	}

	if err := s.channels.UpdateStatus(ctx, channelID, channel.StatusMonitored, time.Now()); err != nil {
		return sum, fmt.Errorf("update channel status: %w", err)
	}
	return sum, nil
}

// Results lists persisted records for a channel, newest first.
func (s *Service) Results(ctx context.Context, channelID string, limit int) ([]resultrepo.Record, error) {
	records, err := s.results.ListResults(ctx, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return records, nil
}

// Alerts lists alerts, optionally filtered by status.
func (s *Service) Alerts(ctx context.Context, status string) ([]resultrepo.Alert, error) {
	alerts, err := s.results.ListAlerts(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// DismissAlert marks an alert as reviewed.
func (s *Service) DismissAlert(ctx context.Context, id string) error {
	if err := s.results.DismissAlert(ctx, id); err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	return nil
}

func (s *Service) markError(ctx context.Context, channelID string) {
	if err := s.channels.UpdateStatus(ctx, channelID, channel.StatusError, time.Time{}); err != nil {
		logger.FromContext(ctx).Warn("Failed to mark channel errored",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
	}
}
