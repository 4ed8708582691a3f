package cache

import (
	"context"
	"time"
)

// Cache is the small key/value surface the application needs: counters
// with expiry for login throttling plus a health check.
type Cache interface {
	// GetInt returns the counter stored at key, zero when missing.
	GetInt(ctx context.Context, key string) (int64, error)

	// Increment atomically adds one to key and returns the new value.
	// A missing key starts at zero.
	Increment(ctx context.Context, key string) (int64, error)

	// Expire sets a time to live on key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the remaining time to live of key, or zero when the key
	// has no expiry or does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
