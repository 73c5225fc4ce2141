package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key namespaces. Every key lives under Namespace so the whole set can be
// invalidated without touching unrelated data in a shared Redis.
const (
	Namespace = "movies:"

	KeyTopRated = Namespace + "top250"
	KeyGenres   = Namespace + "genres"

	DetailPrefix = Namespace + "detail:"
	SearchPrefix = Namespace + "search:"

	PatternAll     = Namespace + "*"
	PatternDetails = DetailPrefix + "*"
	PatternSearch  = SearchPrefix + "*"
)

// DetailKey returns the cache key of a single record.
func DetailKey(id string) string {
	return DetailPrefix + id
}

// SearchKey returns the cache key of an upstream search page.
// The inputs are hashed so arbitrary query text never leaks into key syntax.
func SearchKey(query, titleType string, rows int) string {
	h := xxhash.New()
	_, _ = h.WriteString(strings.TrimSpace(query))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(titleType)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(rows))
	return fmt.Sprintf("%s%016x", SearchPrefix, h.Sum64())
}
