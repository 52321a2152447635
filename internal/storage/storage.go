package storage

import (
	"context"
	"errors"

	"guild_war_stats/internal/app"
)

// Sentinel errors shared by the storage backends and the store facade.
var (
	// ErrNotFound indicates an operation referenced a record id that does
	// not exist in the dataset.
	ErrNotFound = errors.New("attack record not found")

	// ErrInvalidFormat indicates an import payload that could not be parsed
	// as a guild war data envelope. Distinct from backend I/O failures.
	ErrInvalidFormat = errors.New("invalid data format")
)

// Storage persists the guild war data envelope under a key. Get returns
// (nil, nil) when nothing is stored under the key. Implementations perform
// no retries; every call is a single attempt.
type Storage interface {
	Get(ctx context.Context, key string) (*app.GuildWarData, error)
	Set(ctx context.Context, key string, data *app.GuildWarData) error
	Delete(ctx context.Context, key string) error
}
