package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// EvictCallback is called when an entry leaves the store. The memory backend
// reports every removal, expiry and Delete included. The redis backend only
// reports capacity evictions and passes a nil value.
type EvictCallback func(key string, value []byte)

// Logger receives backend failures that do not surface as errors to the caller.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a bounded key-value store with LRU eviction and a per-entry TTL.
// It holds serialized session pages so a session survives a process restart
// when a shared backend is configured.
type Cache interface {
	// Get returns the stored value, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key and refreshes its TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Len reports the number of live entries.
	Len(ctx context.Context) int

	Close() error
}
