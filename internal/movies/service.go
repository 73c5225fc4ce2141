package movies

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"moviegate/internal/cache"
	"moviegate/internal/core"
	"moviegate/internal/upstream"
)

// Upstream is the subset of the catalog client the service depends on.
type Upstream interface {
	TopRated(ctx context.Context) ([]byte, error)
	Search(ctx context.Context, p upstream.SearchParams) ([]byte, error)
	Title(ctx context.Context, id string) ([]byte, error)
	CastTitles(ctx context.Context, castID string) ([]byte, error)
}

// TTLs holds the expiry of each cache namespace.
type TTLs struct {
	Movies  time.Duration
	Genres  time.Duration
	Details time.Duration
	Search  time.Duration
}

// Config holds service settings.
type Config struct {
	TTLs TTLs
	// SearchRows is the page size requested from the upstream search
	SearchRows int
	// DirectDetail tries the by-id endpoint before scanning the top-rated list
	DirectDetail bool
}

// DefaultConfig returns the service defaults.
func DefaultConfig() Config {
	return Config{
		TTLs: TTLs{
			Movies:  time.Hour,
			Genres:  24 * time.Hour,
			Details: 2 * time.Hour,
			Search:  time.Hour,
		},
		SearchRows:   100,
		DirectDetail: true,
	}
}

// Service implements core.MovieService on top of the upstream catalog and a cache.
// Concurrent misses for the same key share one upstream call; a caller that
// gives up does not cancel it for the others.
type Service struct {
	upstream Upstream
	cache    cache.Cache
	config   Config
	group    singleflight.Group
}

var _ core.MovieService = (*Service)(nil)

// NewService creates a new movie query service.
func NewService(up Upstream, c cache.Cache, config Config) *Service {
	if config.SearchRows <= 0 {
		config.SearchRows = DefaultConfig().SearchRows
	}
	return &Service{
		upstream: up,
		cache:    c,
		config:   config,
	}
}

// ListTopRated returns the top-rated listing filtered by genre substring.
// TotalResults is the filtered count. Transient upstream failures yield an empty list.
func (s *Service) ListTopRated(ctx context.Context, genre string) (*core.MovieList, error) {
	movies, err := s.topRated(ctx)
	if err != nil {
		if downgradable(err) {
			s.logDowngrade(ctx, "list top rated", err)
			return &core.MovieList{Movies: []core.Movie{}, TotalResults: 0}, nil
		}
		return nil, err
	}

	filtered := Filter(movies, core.MovieFilters{Genre: genre})
	return &core.MovieList{Movies: filtered, TotalResults: len(filtered)}, nil
}

// Search runs a free-text search. A blank query returns an empty result without any upstream call.
// HasMore is true when the upstream returned a full page, which may overreport on exact multiples.
func (s *Service) Search(ctx context.Context, req core.SearchRequest) (*core.SearchResult, error) {
	if err := validateSearch(req); err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	titleType := req.Type
	if titleType == "" {
		titleType = core.TitleTypeAll
	}
	empty := &core.SearchResult{Movies: []core.Movie{}, TotalResults: 0, Page: page, HasMore: false}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return empty, nil
	}

	rows := s.config.SearchRows
	key := cache.SearchKey(query, string(titleType), rows)

	var result SearchPage
	hit, err := s.cached(ctx, key, &result)
	if err != nil {
		return nil, err
	}
	if !hit {
		v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
			body, err := s.upstream.Search(ctx, upstream.SearchParams{Query: query, Rows: rows, Type: titleType})
			if err != nil {
				return nil, err
			}
			p, err := NormalizeSearch(body)
			if err != nil {
				return nil, err
			}
			s.store(ctx, key, p, s.config.TTLs.Search)
			return p, nil
		})
		if err != nil {
			if downgradable(err) {
				s.logDowngrade(ctx, "search", err)
				return empty, nil
			}
			return nil, err
		}
		result = v.(SearchPage)
	}

	movies := result.Movies
	total := result.NumFound
	if req.MinRating != nil {
		movies = Filter(movies, core.MovieFilters{Rating: req.MinRating})
		total = len(movies)
	}
	if movies == nil {
		movies = []core.Movie{}
	}

	return &core.SearchResult{
		Movies:       movies,
		TotalResults: total,
		Page:         page,
		HasMore:      len(result.Movies) == rows,
	}, nil
}

func validateSearch(req core.SearchRequest) error {
	if utf8.RuneCountInString(req.Query) > core.MaxQueryLength {
		return core.NewValidationError("query must be at most 100 characters")
	}
	if req.Type != "" && !req.Type.Valid() {
		return core.NewValidationError("unknown title type: " + string(req.Type))
	}
	if r := req.MinRating; r != nil && !core.ValidRating(*r) {
		return core.NewValidationError("minRating must be between 0 and 10")
	}
	return nil
}

// GetByID returns a single record. Unlike list operations, upstream failures are surfaced,
// and a miss after a full scan is a not-found error.
func (s *Service) GetByID(ctx context.Context, id string) (*core.Movie, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, core.NewValidationError("movie id is required")
	}

	key := cache.DetailKey(id)
	var movie core.Movie
	hit, err := s.cached(ctx, key, &movie)
	if err != nil {
		return nil, err
	}
	if hit {
		return &movie, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		m, err := s.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, m, s.config.TTLs.Details)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	m := v.(core.Movie)
	return &m, nil
}

// lookup tries the by-id endpoint first, then degrades to scanning the top-rated list.
func (s *Service) lookup(ctx context.Context, id string) (core.Movie, error) {
	if s.config.DirectDetail {
		m, err := s.direct(ctx, id)
		if err == nil {
			return m, nil
		}
		if !core.IsType(err, core.ErrorTypeUpstream) && !core.IsType(err, core.ErrorTypeParse) {
			return core.Movie{}, err
		}
		slog.Debug("direct detail lookup failed, scanning top rated list",
			"id", id,
			"error", err,
			"request_id", core.GetRequestID(ctx),
		)
	}

	movies, err := s.topRated(ctx)
	if err != nil {
		if core.IsType(err, core.ErrorTypeParse) {
			return core.Movie{}, core.NewInternalError("could not read the top rated list", err)
		}
		return core.Movie{}, err
	}
	for _, m := range movies {
		if m.ID == id {
			return m, nil
		}
	}
	return core.Movie{}, core.NewNotFoundError("movie not found: " + id)
}

func (s *Service) direct(ctx context.Context, id string) (core.Movie, error) {
	body, err := s.upstream.Title(ctx, id)
	if err != nil {
		return core.Movie{}, err
	}
	m, err := NormalizeObject(body)
	if err != nil {
		return core.Movie{}, err
	}
	// A 200 answer without an id and title is a "not found" message, not a record
	if m.ID == "" || m.Title == "" {
		return core.Movie{}, core.NewParseError("upstream returned no movie record for "+id, nil)
	}
	return m, nil
}

// ListGenres returns the sorted unique genres of the top-rated set.
func (s *Service) ListGenres(ctx context.Context) ([]string, error) {
	var genres []string
	hit, err := s.cached(ctx, cache.KeyGenres, &genres)
	if err != nil {
		return nil, err
	}
	if hit {
		return genres, nil
	}

	movies, err := s.topRated(ctx)
	if err != nil {
		if downgradable(err) {
			s.logDowngrade(ctx, "list genres", err)
			return []string{}, nil
		}
		return nil, err
	}

	genres = DeriveGenres(movies)
	s.store(ctx, cache.KeyGenres, genres, s.config.TTLs.Genres)
	return genres, nil
}

// ListGenreStats returns the derived genres with slugs and counts.
func (s *Service) ListGenreStats(ctx context.Context) ([]core.Genre, error) {
	movies, err := s.topRated(ctx)
	if err != nil {
		if downgradable(err) {
			s.logDowngrade(ctx, "list genre stats", err)
			return []core.Genre{}, nil
		}
		return nil, err
	}
	return GenreStats(movies), nil
}

// CastTitles passes the upstream response through. Non-JSON bodies are wrapped as {"text": ...}.
func (s *Service) CastTitles(ctx context.Context, castID string) (json.RawMessage, error) {
	castID = strings.TrimSpace(castID)
	if castID == "" {
		return nil, core.NewValidationError("cast id is required")
	}

	body, err := s.upstream.CastTitles(ctx, castID)
	if err != nil {
		return nil, err
	}
	if gjson.ValidBytes(body) {
		return json.RawMessage(body), nil
	}

	wrapped, err := json.Marshal(map[string]string{"text": string(body)})
	if err != nil {
		return nil, core.NewInternalError("failed to encode cast titles", err)
	}
	return wrapped, nil
}

// ClearCache drops all entries, or only those matching pattern.
func (s *Service) ClearCache(ctx context.Context, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		if err := s.cache.Clear(ctx); err != nil {
			return core.NewInternalError("failed to clear cache", err)
		}
		slog.Info("cache cleared", "request_id", core.GetRequestID(ctx))
		return nil
	}

	removed, err := s.cache.ClearPattern(ctx, pattern)
	if err != nil {
		return core.NewInternalError("failed to clear cache pattern", err)
	}
	slog.Info("cache pattern cleared",
		"pattern", pattern,
		"removed", removed,
		"request_id", core.GetRequestID(ctx),
	)
	return nil
}

// topRated returns the normalized, unfiltered top-rated list from cache or upstream.
func (s *Service) topRated(ctx context.Context) ([]core.Movie, error) {
	var movies []core.Movie
	hit, err := s.cached(ctx, cache.KeyTopRated, &movies)
	if err != nil {
		return nil, err
	}
	if hit {
		return movies, nil
	}

	v, err := s.shared(ctx, cache.KeyTopRated, func(ctx context.Context) (interface{}, error) {
		body, err := s.upstream.TopRated(ctx)
		if err != nil {
			return nil, err
		}
		list, err := NormalizeList(body)
		if err != nil {
			return nil, err
		}
		s.store(ctx, cache.KeyTopRated, list, s.config.TTLs.Movies)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.Movie), nil
}

// shared runs fn once per key for all concurrent callers. The flight runs
// detached from any single caller's cancellation; each caller stops waiting
// when its own context is done.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, core.NewNetworkError("request canceled", ctx.Err())
	}
}

// cached decodes the entry under key into dst.
// Backend failures and undecodable entries are logged and treated as a miss;
// only a canceled context is returned as an error.
func (s *Service) cached(ctx context.Context, key string, dst interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, core.NewNetworkError("request canceled", err)
	}

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache read failed", "key", key, "error", err, "request_id", core.GetRequestID(ctx))
		return false, nil
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// store writes value under key; failures are logged and never fail the request.
func (s *Service) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err, "request_id", core.GetRequestID(ctx))
	}
}

func (s *Service) logDowngrade(ctx context.Context, op string, err error) {
	slog.Warn("upstream unavailable, returning empty result",
		"operation", op,
		"error_type", core.ErrorTypeOf(err),
		"error", err,
		"request_id", core.GetRequestID(ctx),
	)
}

// downgradable reports whether a list operation may answer with an empty result.
// Rate limits and configuration errors are always surfaced.
func downgradable(err error) bool {
	switch core.ErrorTypeOf(err) {
	case core.ErrorTypeNetwork, core.ErrorTypeParse, core.ErrorTypeUpstream:
		return true
	default:
		return false
	}
}
