package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trinetra-labs/trinetra/internal/domain"
)

type fakeStore struct {
	lists  map[string][]string
	hashes map[string]map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lists:  make(map[string][]string),
		hashes: make(map[string]map[string]string),
	}
}

func (f *fakeStore) HSet(_ context.Context, key string, fields map[string]string) error {
	h := f.hashes[key]
	if h == nil {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (f *fakeStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.hashes[key]
	return ok, nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.hashes, key)
	return nil
}

func (f *fakeStore) LPush(_ context.Context, key string, values ...string) error {
	for _, v := range values {
		f.lists[key] = append([]string{v}, f.lists[key]...)
	}
	return nil
}

func (f *fakeStore) LRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	return f.lists[key], nil
}

func TestAdd_DerivesNameFromLink(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	cases := []struct {
		link string
		want string
	}{
		{"https://t.me/shadow_market", "shadow_market"},
		{"@direct_handle", "direct_handle"},
		{"plainname", "plainname"},
	}
	for _, tc := range cases {
		ch, err := repo.Add(context.Background(), tc.link, "")
		if err != nil {
			t.Fatalf("Add(%q): %v", tc.link, err)
		}
		if ch.Name != tc.want {
			t.Errorf("Add(%q) name: got %q, want %q", tc.link, ch.Name, tc.want)
		}
		if ch.Status != StatusActive {
			t.Errorf("Add(%q) status: got %q, want %q", tc.link, ch.Status, StatusActive)
		}
	}
}

func TestAdd_ExplicitNameWins(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	ch, err := repo.Add(context.Background(), "https://t.me/xyz", "Watchlist A")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ch.Name != "Watchlist A" {
		t.Errorf("name: got %q, want explicit name", ch.Name)
	}
}

func TestAdd_RequiresLink(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	if _, err := repo.Add(context.Background(), "  ", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	repo := New(newFakeStore(), "test:").WithClock(func() time.Time {
		return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	})

	added, err := repo.Add(context.Background(), "https://t.me/market", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := repo.Get(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != added.ID || got.Link != added.Link || got.Name != added.Name {
		t.Errorf("round trip mismatch:\nadded %+v\ngot   %+v", added, got)
	}
	if !got.AddedAt.Equal(added.AddedAt) {
		t.Errorf("added_at: got %v, want %v", got.AddedAt, added.AddedAt)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrChannelNotFound) {
		t.Errorf("got %v, want ErrChannelNotFound", err)
	}
}

func TestList_SkipsRemoved(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	first, _ := repo.Add(context.Background(), "https://t.me/one", "")
	second, _ := repo.Add(context.Background(), "https://t.me/two", "")

	if err := repo.Remove(context.Background(), first.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	channels, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != second.ID {
		t.Errorf("list: got %+v, want only the second channel", channels)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	ch, _ := repo.Add(context.Background(), "https://t.me/one", "")
	monitoredAt := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	if err := repo.UpdateStatus(context.Background(), ch.ID, StatusMonitored, monitoredAt); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := repo.Get(context.Background(), ch.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusMonitored {
		t.Errorf("status: got %q, want %q", got.Status, StatusMonitored)
	}
	if !got.LastMonitored.Equal(monitoredAt) {
		t.Errorf("last_monitored: got %v, want %v", got.LastMonitored, monitoredAt)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	err := repo.UpdateStatus(context.Background(), "missing", StatusMonitored, time.Now())
	if !errors.Is(err, domain.ErrChannelNotFound) {
		t.Errorf("got %v, want ErrChannelNotFound", err)
	}
}

func TestRemove_NotFound(t *testing.T) {
	repo := New(newFakeStore(), "test:")

	if err := repo.Remove(context.Background(), "missing"); !errors.Is(err, domain.ErrChannelNotFound) {
		t.Errorf("got %v, want ErrChannelNotFound", err)
	}
}
