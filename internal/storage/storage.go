// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"groundhog/internal/model"
)

// ErrUnknownEntity is returned when a member or channel id is not part of
// the snapshot.
var ErrUnknownEntity = errors.New("unknown entity")

// Storage is the interface for all persistence operations.
type Storage interface {
	InsertSeenURL(ctx context.Context, u model.SeenURL) (bool, error)
	GetSeenURL(ctx context.Context, url string) (model.SeenURL, bool, error)
	CountSeenURLs(ctx context.Context) (int, error)

	ReplaceMembers(ctx context.Context, members []model.Member) error
	ReplaceChannels(ctx context.Context, channels []model.Channel) error
	CountMembers(ctx context.Context) (int, error)
	LookupMember(ctx context.Context, id string) (string, error)
	LookupChannel(ctx context.Context, id string) (string, error)

	Close() error
}
