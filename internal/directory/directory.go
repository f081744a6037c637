// Package directory keeps the member and channel snapshot used to turn ids
// into names.
package directory

import (
	"context"
	"fmt"
	"log/slog"

	"groundhog/internal/model"
)

// Fetcher lists the workspace's users and channels.
type Fetcher interface {
	ListMembers(ctx context.Context) ([]model.Member, error)
	ListChannels(ctx context.Context) ([]model.Channel, error)
}

// Store persists the snapshot.
type Store interface {
	CountMembers(ctx context.Context) (int, error)
	ReplaceMembers(ctx context.Context, members []model.Member) error
	ReplaceChannels(ctx context.Context, channels []model.Channel) error
}

// Syncer copies the platform's directory into the store.
type Syncer struct {
	fetcher Fetcher
	store   Store
	log     *slog.Logger
}

// New creates a Syncer.
func New(f Fetcher, store Store, log *slog.Logger) *Syncer {
	return &Syncer{fetcher: f, store: store, log: log}
}

// Ensure loads the snapshot when the store has none yet, or always when
// force is set. It reports whether a sync took place.
func (s *Syncer) Ensure(ctx context.Context, force bool) (bool, error) {
	if !force {
		n, err := s.store.CountMembers(ctx)
		if err != nil {
			return false, err
		}
		if n > 0 {
			s.log.Debug("directory snapshot present", "members", n)
			return false, nil
		}
	}
	if err := s.Sync(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Sync replaces the snapshot with the platform's current directory.
func (s *Syncer) Sync(ctx context.Context) error {
	members, err := s.fetcher.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("fetch members: %w", err)
	}
	channels, err := s.fetcher.ListChannels(ctx)
	if err != nil {
		return fmt.Errorf("fetch channels: %w", err)
	}

	if err := s.store.ReplaceMembers(ctx, members); err != nil {
		return fmt.Errorf("store members: %w", err)
	}
	if err := s.store.ReplaceChannels(ctx, channels); err != nil {
		return fmt.Errorf("store channels: %w", err)
	}

	s.log.Info("directory synced", "members", len(members), "channels", len(channels))
	return nil
}
