// Package channel tracks the channels whose messages are being
// monitored and their scan status.
package channel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trinetra-labs/trinetra/internal/domain"
)

// Store is the narrow storage interface this repository consumes.
type Store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Channel statuses.
const (
	StatusActive    = "active"
	StatusMonitored = "monitored"
	StatusError     = "error"
)

// Channel is a monitored channel record.
type Channel struct {
	ID            string    `json:"id"`
	Link          string    `json:"link"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	AddedAt       time.Time `json:"added_at"`
	LastMonitored time.Time `json:"last_monitored,omitzero"`
}

// Repo stores channels as hashes behind a global index list.
type Repo struct {
	store  Store
	prefix string
	now    func() time.Time
}

// New creates a channel repository.
func New(store Store, prefix string) *Repo {
	return &Repo{store: store, prefix: prefix, now: time.Now}
}

// WithClock overrides the timestamp source (tests).
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

func (r *Repo) channelKey(id string) string { return r.prefix + "channel:" + id }

func (r *Repo) indexKey() string { return r.prefix + "channels" }

// Add registers a channel. When name is empty it is derived from the
// link the way the ingestion side names channels (last path element,
// leading @ stripped).
func (r *Repo) Add(ctx context.Context, link, name string) (Channel, error) {
	if strings.TrimSpace(link) == "" {
		return Channel{}, fmt.Errorf("%w: channel link is required", domain.ErrInvalidInput)
	}
	if name == "" {
		name = deriveName(link)
	}

	ch := Channel{
		ID:      uuid.NewString(),
		Link:    link,
		Name:    name,
		Status:  StatusActive,
		AddedAt: r.now().UTC(),
	}
	if err := r.store.HSet(ctx, r.channelKey(ch.ID), channelFields(ch)); err != nil {
		return Channel{}, fmt.Errorf("save channel: %w", err)
	}
	if err := r.store.LPush(ctx, r.indexKey(), ch.ID); err != nil {
		return Channel{}, fmt.Errorf("index channel: %w", err)
	}
	return ch, nil
}

// Get returns one channel by id.
func (r *Repo) Get(ctx context.Context, id string) (Channel, error) {
	fields, err := r.store.HGetAll(ctx, r.channelKey(id))
	if err != nil {
		return Channel{}, fmt.Errorf("read channel: %w", err)
	}
	if len(fields) == 0 {
		return Channel{}, fmt.Errorf("channel %s: %w", id, domain.ErrChannelNotFound)
	}
	return channelFromFields(id, fields), nil
}

// List returns all channels, newest first. Index entries whose record
// was removed are skipped.
func (r *Repo) List(ctx context.Context) ([]Channel, error) {
	ids, err := r.store.LRange(ctx, r.indexKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("range channel index: %w", err)
	}

	channels := make([]Channel, 0, len(ids))
	for _, id := range ids {
		fields, err := r.store.HGetAll(ctx, r.channelKey(id))
		if err != nil {
			return nil, fmt.Errorf("read channel %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		channels = append(channels, channelFromFields(id, fields))
	}
	return channels, nil
}

// UpdateStatus records the outcome of a scan pass.
func (r *Repo) UpdateStatus(ctx context.Context, id, status string, monitoredAt time.Time) error {
	ok, err := r.store.Exists(ctx, r.channelKey(id))
	if err != nil {
		return fmt.Errorf("check channel: %w", err)
	}
	if !ok {
		return fmt.Errorf("channel %s: %w", id, domain.ErrChannelNotFound)
	}

	fields := map[string]string{"status": status}
	if !monitoredAt.IsZero() {
		fields["last_monitored"] = monitoredAt.UTC().Format(time.RFC3339Nano)
	}
	if err := r.store.HSet(ctx, r.channelKey(id), fields); err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	return nil
}

// Remove deletes a channel record. The index entry is left behind and
// filtered out on List.
func (r *Repo) Remove(ctx context.Context, id string) error {
	ok, err := r.store.Exists(ctx, r.channelKey(id))
	if err != nil {
		return fmt.Errorf("check channel: %w", err)
	}
	if !ok {
		return fmt.Errorf("channel %s: %w", id, domain.ErrChannelNotFound)
	}
	if err := r.store.Del(ctx, r.channelKey(id)); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

func deriveName(link string) string {
	name := link
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "@")
}

func channelFields(ch Channel) map[string]string {
	fields := map[string]string{
		"link":     ch.Link,
		"name":     ch.Name,
		"status":   ch.Status,
		"added_at": ch.AddedAt.Format(time.RFC3339Nano),
	}
	if !ch.LastMonitored.IsZero() {
		fields["last_monitored"] = ch.LastMonitored.Format(time.RFC3339Nano)
	}
	return fields
}

func channelFromFields(id string, fields map[string]string) Channel {
	addedAt, _ := time.Parse(time.RFC3339Nano, fields["added_at"])
	lastMonitored, _ := time.Parse(time.RFC3339Nano, fields["last_monitored"])
	return Channel{
		ID:            id,
		Link:          fields["link"],
		Name:          fields["name"],
		Status:        fields["status"],
		AddedAt:       addedAt,
		LastMonitored: lastMonitored,
	}
}
