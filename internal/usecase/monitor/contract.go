package monitor

import (
	"context"
	"time"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/verdict"
	resultrepo "github.com/trinetra-labs/trinetra/internal/repository/result"
)

// Classifier runs the classification engine on one text.
type Classifier interface {
	Classify(ctx context.Context, text string) (verdict.Result, error)
}

// ResultStore persists classification records and alerts.
type ResultStore interface {
	SaveResult(ctx context.Context, channelID string, msg domain.Message, res verdict.Result) error
	SaveAlert(ctx context.Context, channelID string, msg domain.Message, res verdict.Result) (string, error)
	ListResults(ctx context.Context, channelID string, limit int) ([]resultrepo.Record, error)
	ListAlerts(ctx context.Context, status string) ([]resultrepo.Alert, error)
	DismissAlert(ctx context.Context, id string) error
}

// ChannelStore tracks scan status per channel.
type ChannelStore interface {
	UpdateStatus(ctx context.Context, id, status string, monitoredAt time.Time) error
}
