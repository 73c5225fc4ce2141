// Package cache provides the process-wide key-value store used for upstream responses.
// Supports an in-memory backend (single instance) and Redis for multi-instance deployments.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for response cache storage.
// Implementations must be safe for concurrent use. Reads never return
// expired entries, even when purging them is deferred.
type Cache interface {
	// Get returns the value stored under key.
	// Returns nil, false, nil when the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any existing entry.
	// A non-positive ttl stores the entry without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Has reports whether a fresh entry exists for key.
	Has(ctx context.Context, key string) (bool, error)

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// Clear drops all entries.
	Clear(ctx context.Context) error

	// ClearPattern drops every entry whose key matches pattern and returns how many were removed.
	// See MatchPattern for the pattern syntax.
	ClearPattern(ctx context.Context, pattern string) (int, error)

	// Close releases any resources held by the cache.
	Close() error
}
