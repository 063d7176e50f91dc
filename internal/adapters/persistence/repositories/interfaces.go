package repositories

import (
	"context"
	"time"
)

// SessionPrefix scopes browser session keys inside a shared store
const SessionPrefix = "sess:"

// KeyValueStore is the persisted key/value store behind sessions and the store configuration.
// SetMany must be applied atomically: readers never observe half of it.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Sweeper is implemented by stores that can drop idle entries (cleanup job)
type Sweeper interface {
	DeleteOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int64, error)
}

// SweepingStore is a KeyValueStore with idle entry cleanup
type SweepingStore interface {
	KeyValueStore
	Sweeper
}
