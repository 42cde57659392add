package driven

import (
	"context"
	"time"
)

// Cache is a TTL key/value substrate.
// Get returns domain.ErrCacheMiss for absent or expired keys.
type Cache interface {
	// Get retrieves a value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value that expires after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Close releases resources.
	Close() error
}
