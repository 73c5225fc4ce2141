package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired entries are swept from memory.
const DefaultCleanupInterval = 10 * time.Minute

// MemoryCache implements Cache in process memory.
// Expired entries are hidden from reads immediately and purged by a janitor.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache.
// cleanupInterval <= 0 uses DefaultCleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from memory.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of value.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.store.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Has reports whether key holds a fresh entry.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	_, ok := c.store.Get(key)
	return ok, nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Clear drops all entries.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.store.Flush()
	return nil
}

// ClearPattern drops every fresh entry matching pattern.
func (c *MemoryCache) ClearPattern(_ context.Context, pattern string) (int, error) {
	removed := 0
	for key := range c.store.Items() {
		if MatchPattern(pattern, key) {
			c.store.Delete(key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}

// Close is a no-op for the memory cache.
func (c *MemoryCache) Close() error {
	return nil
}
