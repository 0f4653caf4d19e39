// Package channel exposes channel bookkeeping to the transport layer.
package channel

import (
	"context"
	"fmt"

	channelrepo "github.com/trinetra-labs/trinetra/internal/repository/channel"
)

// Repository is the storage contract for channel records.
type Repository interface {
	Add(ctx context.Context, link, name string) (channelrepo.Channel, error)
	Get(ctx context.Context, id string) (channelrepo.Channel, error)
	List(ctx context.Context) ([]channelrepo.Channel, error)
	Remove(ctx context.Context, id string) error
}

// Service handles channel registration and listing.
type Service struct {
	repo Repository
}

// New creates a channel service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add registers a channel for monitoring.
func (s *Service) Add(ctx context.Context, link, name string) (channelrepo.Channel, error) {
	ch, err := s.repo.Add(ctx, link, name)
	if err != nil {
		return channelrepo.Channel{}, fmt.Errorf("add channel: %w", err)
	}
	return ch, nil
}

// Get returns one channel by id.
func (s *Service) Get(ctx context.Context, id string) (channelrepo.Channel, error) {
	ch, err := s.repo.Get(ctx, id)
	if err != nil {
		return channelrepo.Channel{}, fmt.Errorf("get channel: %w", err)
	}
	return ch, nil
}

// List returns all registered channels.
func (s *Service) List(ctx context.Context) ([]channelrepo.Channel, error) {
	channels, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

// Remove deletes a channel record.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove channel: %w", err)
	}
	return nil
}
