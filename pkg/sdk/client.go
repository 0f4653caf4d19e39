package trinetra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/trinetra-labs/trinetra/internal/db"
	dbRedis "github.com/trinetra-labs/trinetra/internal/db/redis"
	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/keyword"
	"github.com/trinetra-labs/trinetra/internal/domain/verdict"
	logpkg "github.com/trinetra-labs/trinetra/internal/logger"
	channelrepo "github.com/trinetra-labs/trinetra/internal/repository/channel"
	resultrepo "github.com/trinetra-labs/trinetra/internal/repository/result"
	"github.com/trinetra-labs/trinetra/internal/scorer/heuristic"
	openaiScorer "github.com/trinetra-labs/trinetra/internal/transport/openai"
	channeluc "github.com/trinetra-labs/trinetra/internal/usecase/channel"
	classifyuc "github.com/trinetra-labs/trinetra/internal/usecase/classify"
	exportuc "github.com/trinetra-labs/trinetra/internal/usecase/export"
	healthuc "github.com/trinetra-labs/trinetra/internal/usecase/health"
	monitoruc "github.com/trinetra-labs/trinetra/internal/usecase/monitor"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "trinetra:"
	defaultMaxPerChannel    = 1000
)

// Internal interfaces for test substitution.
type classifyUseCase interface {
	Classify(ctx context.Context, text string) (verdict.Result, error)
}

type channelUseCase interface {
	Add(ctx context.Context, link, name string) (channelrepo.Channel, error)
	Get(ctx context.Context, id string) (channelrepo.Channel, error)
	List(ctx context.Context) ([]channelrepo.Channel, error)
	Remove(ctx context.Context, id string) error
}

type monitorUseCase interface {
	Scan(ctx context.Context, channelID string, msgs []domain.Message) (monitoruc.Summary, error)
	Results(ctx context.Context, channelID string, limit int) ([]resultrepo.Record, error)
	Alerts(ctx context.Context, status string) ([]resultrepo.Alert, error)
	DismissAlert(ctx context.Context, id string) error
}

type exportUseCase interface {
	WriteCSV(ctx context.Context, w io.Writer, channelID string, limit int) error
}

// Client is the trinetra SDK entry point.
type Client struct {
	store       db.Store
	classifySvc classifyUseCase
	channelSvc  channelUseCase
	monitorSvc  monitorUseCase
	exportSvc   exportUseCase
	healthSvc   healthUseCase
	logger      *zap.Logger
}

// New creates a trinetra Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:     defaultKeyPrefix,
		maxPerChannel: defaultMaxPerChannel,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("trinetra: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("trinetra: database not ready: %w", err)
	}

	return wireClient(store, cfg)
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	// rueidis speaks both redis and valkey.
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("trinetra: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("trinetra: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	cats := category.DefaultSet()

	groups := keyword.DefaultGroups()
	if len(cfg.keywordGroups) > 0 {
		groups = make([]keyword.Group, len(cfg.keywordGroups))
		for i, g := range cfg.keywordGroups {
			groups[i] = keyword.Group{
				Name:       g.Name,
				Weight:     g.Weight,
				Symbolic:   g.Symbolic,
				HighSignal: g.HighSignal,
				Terms:      g.Terms,
			}
		}
	}
	registry, err := keyword.NewRegistry(groups)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("trinetra: keyword registry: %w", err)
	}

	var scorer classifyuc.Scorer
	if cfg.zeroShot != nil {
		scorerLogger := cfg.logger
		if scorerLogger == nil {
			scorerLogger = zap.NewNop()
		}
		scorer = openaiScorer.New(openaiScorer.Config{
			APIKey:  cfg.zeroShot.apiKey,
			BaseURL: cfg.zeroShot.baseURL,
			Model:   cfg.zeroShot.model,
		}, cats, scorerLogger)
	} else {
		scorer = heuristic.New(cats)
	}

	classifySvc, err := classifyuc.New(registry, cats, scorer)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("trinetra: classification engine: %w", err)
	}

	resultRepo := resultrepo.New(store, cfg.keyPrefix, cfg.maxPerChannel)
	channelRepo := channelrepo.New(store, cfg.keyPrefix)

	var scorerCheck healthuc.ScorerChecker
	if hc, ok := scorer.(healthuc.ScorerChecker); ok {
		scorerCheck = hc
	}

	return &Client{
		store:       store,
		classifySvc: classifySvc,
		channelSvc:  channeluc.New(channelRepo),
		monitorSvc:  monitoruc.New(classifySvc, resultRepo, channelRepo, cats.Target()),
		exportSvc:   exportuc.New(resultRepo),
		healthSvc:   healthuc.New(store, scorerCheck),
		logger:      cfg.logger,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Classify runs one text through the hybrid classification pipeline.
func (c *Client) Classify(ctx context.Context, text string) (Result, error) {
	res, err := c.classifySvc.Classify(c.opCtx(ctx), text)
	if err != nil {
		return Result{}, err
	}
	return resultFromVerdict(res), nil
}

// AddChannel registers a channel for monitoring. An empty name is
// derived from the link.
func (c *Client) AddChannel(ctx context.Context, link, name string) (Channel, error) {
	ch, err := c.channelSvc.Add(c.opCtx(ctx), link, name)
	if err != nil {
		return Channel{}, err
	}
	return channelFromRepo(ch), nil
}

// Channel fetches one monitored channel by ID.
func (c *Client) Channel(ctx context.Context, id string) (Channel, error) {
	ch, err := c.channelSvc.Get(c.opCtx(ctx), id)
	if err != nil {
		return Channel{}, err
	}
	return channelFromRepo(ch), nil
}

// Channels lists all monitored channels.
func (c *Client) Channels(ctx context.Context) ([]Channel, error) {
	channels, err := c.channelSvc.List(c.opCtx(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]Channel, len(channels))
	for i, ch := range channels {
		out[i] = channelFromRepo(ch)
	}
	return out, nil
}

// RemoveChannel deletes a monitored channel.
func (c *Client) RemoveChannel(ctx context.Context, id string) error {
	return c.channelSvc.Remove(c.opCtx(ctx), id)
}

// Scan classifies a batch of messages for a channel, persisting each
// outcome and raising alerts for flagged messages.
func (c *Client) Scan(ctx context.Context, channelID string, msgs []Message) (ScanSummary, error) {
	sum, err := c.monitorSvc.Scan(c.opCtx(ctx), channelID, messagesToDomain(msgs))
	if err != nil {
		return ScanSummary(sum), err
	}
	return ScanSummary(sum), nil
}

// Results lists persisted classification records for a channel, newest
// first. limit <= 0 returns all retained records.
func (c *Client) Results(ctx context.Context, channelID string, limit int) ([]Record, error) {
	records, err := c.monitorSvc.Results(c.opCtx(ctx), channelID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = recordFromRepo(rec)
	}
	return out, nil
}

// ExportCSV streams a channel's classification records to w as CSV.
func (c *Client) ExportCSV(ctx context.Context, w io.Writer, channelID string, limit int) error {
	return c.exportSvc.WriteCSV(c.opCtx(ctx), w, channelID, limit)
}

// Alerts lists alerts, optionally filtered by status
// (AlertStatusNew or AlertStatusDismissed; empty returns all).
func (c *Client) Alerts(ctx context.Context, status string) ([]Alert, error) {
	alerts, err := c.monitorSvc.Alerts(c.opCtx(ctx), status)
	if err != nil {
		return nil, err
	}
	out := make([]Alert, len(alerts))
	for i, a := range alerts {
		out[i] = alertFromRepo(a)
	}
	return out, nil
}

// DismissAlert marks an alert as reviewed.
func (c *Client) DismissAlert(ctx context.Context, id string) error {
	return c.monitorSvc.DismissAlert(c.opCtx(ctx), id)
}

// opCtx attaches the configured logger so internal services pick it up.
func (c *Client) opCtx(ctx context.Context) context.Context {
	if c.logger == nil {
		return ctx
	}
	return logpkg.ContextWithLogger(ctx, c.logger)
}

func resultFromVerdict(res verdict.Result) Result {
	ev := res.Evidence()
	return Result{
		Category:           string(res.Category()),
		Confidence:         res.Confidence(),
		MatchedTerms:       ev.Terms(),
		CategoriesMatched:  ev.CategoriesMatched(),
		HighSignal:         ev.HasHighSignal(),
		SemanticLabel:      string(res.SemanticLabel()),
		SemanticConfidence: res.SemanticConfidence(),
	}
}

func channelFromRepo(ch channelrepo.Channel) Channel {
	return Channel{
		ID:            ch.ID,
		Link:          ch.Link,
		Name:          ch.Name,
		Status:        ch.Status,
		AddedAt:       ch.AddedAt,
		LastMonitored: ch.LastMonitored,
	}
}

func recordFromRepo(rec resultrepo.Record) Record {
	return Record{
		MessageID:          rec.MessageID,
		SenderID:           rec.SenderID,
		Date:               rec.Date,
		Text:               rec.Text,
		Category:           rec.Category,
		Confidence:         rec.Confidence,
		MatchedTerms:       rec.MatchedTerms,
		SemanticLabel:      rec.SemanticLabel,
		SemanticConfidence: rec.SemanticConfidence,
		ProcessedAt:        rec.ProcessedAt,
	}
}

func alertFromRepo(a resultrepo.Alert) Alert {
	return Alert{
		ID:         a.ID,
		ChannelID:  a.ChannelID,
		MessageID:  a.MessageID,
		Text:       a.Text,
		Confidence: a.Confidence,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
	}
}

func messagesToDomain(msgs []Message) []domain.Message {
	out := make([]domain.Message, len(msgs))
	for i, m := range msgs {
		out[i] = domain.Message{
			ID:     m.ID,
			Sender: m.Sender,
			Date:   m.Date,
			Text:   m.Text,
		}
	}
	return out
}
