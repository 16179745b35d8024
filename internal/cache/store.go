// Package cache provides TTL key-value stores, deterministic cache keys, and
// a policy-driven cache-aside manager.
package cache

import (
	"context"
	"time"
)

// Store is a key-value store with per-entry TTL.
// Reading an expired key behaves exactly like a miss; Set always overwrites.
type Store interface {
	// Get returns the value for key. ok is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// GetMulti returns the live entries among keys in a single round-trip.
	GetMulti(ctx context.Context, keys []string) (map[string][]byte, error)
	// SetMulti stores all entries with the same ttl.
	SetMulti(ctx context.Context, entries map[string][]byte, ttl time.Duration) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Sweeper is implemented by stores that must purge expired entries themselves.
type Sweeper interface {
	// Sweep removes up to limit expired entries (limit <= 0 means no limit)
	// and reports how many were removed.
	Sweep(ctx context.Context, limit int) (int, error)
}
