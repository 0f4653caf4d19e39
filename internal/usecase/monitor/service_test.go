package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/evidence"
	"github.com/trinetra-labs/trinetra/internal/domain/verdict"
	"github.com/trinetra-labs/trinetra/internal/repository/channel"
	resultrepo "github.com/trinetra-labs/trinetra/internal/repository/result"
)

type mockClassifier struct {
	results map[string]verdict.Result
	err     error
}

func (m *mockClassifier) Classify(_ context.Context, text string) (verdict.Result, error) {
	if m.err != nil {
		return verdict.Result{}, m.err
	}
	return m.results[text], nil
}

type mockResultStore struct {
	saved      []string
	alerts     []resultrepo.Alert
	saveErr    error
	alertErr   error
	dismissed  []string
	dismissErr error
}

func (m *mockResultStore) SaveResult(_ context.Context, _ string, msg domain.Message, _ verdict.Result) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, msg.Text)
	return nil
}

func (m *mockResultStore) SaveAlert(_ context.Context, channelID string, msg domain.Message, res verdict.Result) (string, error) {
	if m.alertErr != nil {
		return "", m.alertErr
	}
	a := resultrepo.Alert{
		ID:         "alert-1",
		ChannelID:  channelID,
		MessageID:  msg.ID,
		Text:       msg.Text,
		Confidence: res.Confidence(),
		Status:     resultrepo.AlertStatusNew,
	}
	m.alerts = append(m.alerts, a)
	return a.ID, nil
}

func (m *mockResultStore) ListResults(context.Context, string, int) ([]resultrepo.Record, error) {
	return nil, nil
}

func (m *mockResultStore) ListAlerts(_ context.Context, status string) ([]resultrepo.Alert, error) {
	if status == "" {
		return m.alerts, nil
	}
	var out []resultrepo.Alert
	for _, a := range m.alerts {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockResultStore) DismissAlert(_ context.Context, id string) error {
	if m.dismissErr != nil {
		return m.dismissErr
	}
	m.dismissed = append(m.dismissed, id)
	return nil
}

type mockChannelStore struct {
	statuses []string
}

func (m *mockChannelStore) UpdateStatus(_ context.Context, _, status string, _ time.Time) error {
	m.statuses = append(m.statuses, status)
	return nil
}

func saleVerdict() verdict.Result {
	return verdict.New(category.DrugSale, 0.95, evidence.Evidence{}, category.DrugSale, 0.8)
}

func benignVerdict() verdict.Result {
	return verdict.New(category.Normal, 0.4, evidence.Evidence{}, category.Normal, 0.4)
}

func TestScan_MixedBatch(t *testing.T) {
	classifier := &mockClassifier{results: map[string]verdict.Result{
		"mdma available": saleVerdict(),
		"hello everyone": benignVerdict(),
	}}
	results := &mockResultStore{}
	channels := &mockChannelStore{}
	svc := New(classifier, results, channels, category.DrugSale)

	sum, err := svc.Scan(context.Background(), "ch-1", []domain.Message{
		{ID: 1, Text: "mdma available"},
		{ID: 2, Text: "hello everyone"},
		{ID: 3, Text: "   "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.Processed != 2 || sum.Flagged != 1 || sum.Skipped != 1 {
		t.Errorf("summary: got %+v, want processed=2 flagged=1 skipped=1", sum)
	}
	if len(results.saved) != 2 {
		t.Errorf("saved results: got %d, want 2", len(results.saved))
	}
	if len(results.alerts) != 1 || results.alerts[0].Text != "mdma available" {
		t.Errorf("alerts: got %+v, want one for the flagged message", results.alerts)
	}
	if len(channels.statuses) != 1 || channels.statuses[0] != channel.StatusMonitored {
		t.Errorf("channel statuses: got %v, want [monitored]", channels.statuses)
	}
}

func TestScan_UnclassifiableMessagesAreSkipped(t *testing.T) {
	classifier := &mockClassifier{err: domain.ErrInvalidInput}
	results := &mockResultStore{}
	channels := &mockChannelStore{}
	svc := New(classifier, results, channels, category.DrugSale)

	sum, err := svc.Scan(context.Background(), "ch-1", []domain.Message{
		{ID: 1, Text: string([]byte{0xff})},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.Skipped != 1 || sum.Processed != 0 {
		t.Errorf("summary: got %+v, want skipped=1", sum)
	}
}

func TestScan_PersistenceFailureMarksChannelErrored(t *testing.T) {
	classifier := &mockClassifier{results: map[string]verdict.Result{
		"hello": benignVerdict(),
	}}
	results := &mockResultStore{saveErr: errors.New("store down")}
	channels := &mockChannelStore{}
	svc := New(classifier, results, channels, category.DrugSale)

	_, err := svc.Scan(context.Background(), "ch-1", []domain.Message{
		{ID: 1, Text: "hello"},
	})
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}

	if len(channels.statuses) != 1 || channels.statuses[0] != channel.StatusError {
		t.Errorf("channel statuses: got %v, want [error]", channels.statuses)
	}
}

func TestScan_AlertFailureMarksChannelErrored(t *testing.T) {
	classifier := &mockClassifier{results: map[string]verdict.Result{
		"mdma": saleVerdict(),
	}}
	results := &mockResultStore{alertErr: errors.New("store down")}
	channels := &mockChannelStore{}
	svc := New(classifier, results, channels, category.DrugSale)

	_, err := svc.Scan(context.Background(), "ch-1", []domain.Message{
		{ID: 1, Text: "mdma"},
	})
	if err == nil {
		t.Fatal("expected error when alert persistence fails")
	}

	if len(channels.statuses) != 1 || channels.statuses[0] != channel.StatusError {
		t.Errorf("channel statuses: got %v, want [error]", channels.statuses)
	}
}

func TestAlerts_StatusFilter(t *testing.T) {
	results := &mockResultStore{alerts: []resultrepo.Alert{
		{ID: "a1", Status: resultrepo.AlertStatusNew},
		{ID: "a2", Status: resultrepo.AlertStatusDismissed},
	}}
	svc := New(&mockClassifier{}, results, &mockChannelStore{}, category.DrugSale)

	alerts, err := svc.Alerts(context.Background(), resultrepo.AlertStatusNew)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != "a1" {
		t.Errorf("alerts: got %+v, want only a1", alerts)
	}
}

func TestDismissAlert(t *testing.T) {
	results := &mockResultStore{}
	svc := New(&mockClassifier{}, results, &mockChannelStore{}, category.DrugSale)

	if err := svc.DismissAlert(context.Background(), "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results.dismissed) != 1 || results.dismissed[0] != "a1" {
		t.Errorf("dismissed: got %v, want [a1]", results.dismissed)
	}

	results.dismissErr = domain.ErrAlertNotFound
	if err := svc.DismissAlert(context.Background(), "nope"); !errors.Is(err, domain.ErrAlertNotFound) {
		t.Errorf("got %v, want ErrAlertNotFound", err)
	}
}
