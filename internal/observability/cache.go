package observability

import (
	"context"
	"strings"

	"moviegate/internal/cache"
)

// InstrumentedCache records lookup results of the wrapped cache.
type InstrumentedCache struct {
	cache.Cache
}

// NewInstrumentedCache wraps c with Prometheus counters.
func NewInstrumentedCache(c cache.Cache) *InstrumentedCache {
	return &InstrumentedCache{Cache: c}
}

// Get records a hit, miss or error for the key namespace.
func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := c.Cache.Get(ctx, key)
	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case ok:
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(keyNamespace(key), result).Inc()
	return value, ok, err
}

// ClearPattern records how many keys were removed.
func (c *InstrumentedCache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	removed, err := c.Cache.ClearPattern(ctx, pattern)
	if removed > 0 {
		cacheInvalidationsTotal.WithLabelValues(keyNamespace(pattern)).Add(float64(removed))
	}
	return removed, err
}

// keyNamespace returns the label for a key: "movies:detail:tt1" -> "detail".
func keyNamespace(key string) string {
	rest, ok := strings.CutPrefix(key, cache.Namespace)
	if !ok {
		return "other"
	}
	name, _, _ := strings.Cut(rest, ":")
	switch name {
	case "top250", "genres", "detail", "search":
		return name
	case "*", "":
		return "all"
	default:
		return "other"
	}
}
