package core

import (
	"context"
	"encoding/json"
)

// MovieService is the boundary the HTTP layer calls into.
type MovieService interface {
	// ListTopRated returns the top-rated listing, optionally filtered by genre substring
	ListTopRated(ctx context.Context, genre string) (*MovieList, error)

	// Search runs a free-text search against the upstream catalog
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)

	// GetByID returns a single normalized record or a not-found error
	GetByID(ctx context.Context, id string) (*Movie, error)

	// ListGenres returns the sorted, deduplicated genre names of the top-rated set
	ListGenres(ctx context.Context) ([]string, error)

	// ListGenreStats returns genres with slug ids and movie counts
	ListGenreStats(ctx context.Context) ([]Genre, error)

	// CastTitles returns the upstream titles of a cast member as raw JSON
	CastTitles(ctx context.Context, castID string) (json.RawMessage, error)

	// ClearCache drops every cached entry, or only those matching pattern when non-empty
	ClearCache(ctx context.Context, pattern string) error
}
