// Package export renders stored classification records as CSV for
// downstream review tooling.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	resultrepo "github.com/trinetra-labs/trinetra/internal/repository/result"
)

// ResultLister reads persisted records for a channel.
type ResultLister interface {
	ListResults(ctx context.Context, channelID string, limit int) ([]resultrepo.Record, error)
}

// Service writes channel results as CSV.
type Service struct {
	results ResultLister
}

// New creates an export service.
func New(results ResultLister) *Service {
	return &Service{results: results}
}

var header = []string{
	"Message ID", "Sender ID", "Date", "Message Text",
	"Category", "Confidence (%)", "Matched Terms",
}

// WriteCSV streams up to limit records for a channel to w, newest
// first. Confidence is rendered as a full-precision percentage; this is
// the only place the value is formatted for presentation.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, channelID string, limit int) error {
	records, err := s.results.ListResults(ctx, channelID, limit)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.MessageID, 10),
			strconv.FormatInt(rec.SenderID, 10),
			rec.Date.UTC().Format(time.RFC3339),
			rec.Text,
			rec.Category,
			strconv.FormatFloat(rec.Confidence*100, 'f', -1, 64),
			strings.Join(rec.MatchedTerms, ", "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
