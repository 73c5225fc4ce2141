package upstream

import (
	"context"
	"net/url"
	"strconv"

	"moviegate/internal/core"
)

// Catalog endpoints, relative to the base URL.
const (
	PathTopRated = "/top250-movies"
	PathSearch   = "/search"
)

// Search sort parameters. A fixed order keeps pagination stable across calls.
const (
	searchSortOrder = "ASC"
	searchSortField = "id"
)

// SearchParams are the upstream search inputs
type SearchParams struct {
	Query string
	Rows  int
	// Type is omitted from the request when empty or "all"
	Type core.TitleType
}

// TopRated fetches the fixed top-rated listing (a JSON array)
func (c *Client) TopRated(ctx context.Context) ([]byte, error) {
	return c.Get(ctx, Request{Name: "top250", Path: PathTopRated})
}

// Search runs a free-text search; the response is {results, numFound}
func (c *Client) Search(ctx context.Context, p SearchParams) ([]byte, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	q.Set("rows", strconv.Itoa(p.Rows))
	q.Set("sortOrder", searchSortOrder)
	q.Set("sortField", searchSortField)
	if p.Type != "" && p.Type != core.TitleTypeAll {
		q.Set("type", string(p.Type))
	}
	return c.Get(ctx, Request{Name: "search", Path: PathSearch, Query: q})
}

// Title fetches a single title record by id
func (c *Client) Title(ctx context.Context, id string) ([]byte, error) {
	return c.Get(ctx, Request{Name: "title", Path: "/movie/" + url.PathEscape(id)})
}

// CastTitles fetches the titles a cast member appeared in
func (c *Client) CastTitles(ctx context.Context, castID string) ([]byte, error) {
	return c.Get(ctx, Request{Name: "cast_titles", Path: "/cast/" + url.PathEscape(castID) + "/titles"})
}
