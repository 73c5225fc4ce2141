// Package server provides HTTP handlers and server setup for the movie gateway.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"moviegate/internal/core"
)

// UpstreamInfo is the upstream section of the health response.
type UpstreamInfo struct {
	Configured bool                   `json:"configured"`
	Debug      map[string]interface{} `json:"debug,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string        `json:"status"`
	Upstream *UpstreamInfo `json:"upstream,omitempty"`
}

// GenresResponse wraps genre names or genre stats
type GenresResponse struct {
	Genres interface{} `json:"genres"`
}

// Handler holds the HTTP handlers
type Handler struct {
	service      core.MovieService
	upstreamInfo func() UpstreamInfo
}

// NewHandler creates a new handler with the given service
func NewHandler(service core.MovieService, upstreamInfo func() UpstreamInfo) *Handler {
	return &Handler{
		service:      service,
		upstreamInfo: upstreamInfo,
	}
}

// Health handles GET /health
//
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c echo.Context) error {
	resp := HealthResponse{Status: "ok"}
	if h.upstreamInfo != nil {
		info := h.upstreamInfo()
		resp.Upstream = &info
	}
	return c.JSON(http.StatusOK, resp)
}

// ListTopRated handles GET /v1/movies/top
//
// @Summary      List top-rated movies
// @Tags         movies
// @Produce      json
// @Param        genre  query     string  false  "Case-insensitive genre substring"
// @Success      200    {object}  core.MovieList
// @Failure      429    {object}  map[string]interface{}
// @Failure      500    {object}  map[string]interface{}
// @Router       /v1/movies/top [get]
func (h *Handler) ListTopRated(c echo.Context) error {
	resp, err := h.service.ListTopRated(c.Request().Context(), c.QueryParam("genre"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Search handles GET /v1/movies/search
//
// @Summary      Search movies
// @Tags         movies
// @Produce      json
// @Param        query      query     string  true   "Search text (1-100 characters)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        type       query     string  false  "all, movie, tvSeries, tvMovie, tvMiniSeries or tvSpecial"
// @Param        minRating  query     number  false  "Minimum rating (0-10)"
// @Success      200        {object}  core.SearchResult
// @Failure      400        {object}  map[string]interface{}
// @Failure      429        {object}  map[string]interface{}
// @Router       /v1/movies/search [get]
func (h *Handler) Search(c echo.Context) error {
	req, err := parseSearchRequest(c)
	if err != nil {
		return handleError(c, err)
	}

	resp, err := h.service.Search(c.Request().Context(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func parseSearchRequest(c echo.Context) (core.SearchRequest, error) {
	req := core.SearchRequest{
		Query: c.QueryParam("query"),
		Page:  1,
		Type:  core.TitleTypeAll,
	}

	if n := utf8.RuneCountInString(req.Query); n < 1 || n > core.MaxQueryLength {
		return req, core.NewValidationError("query must be between 1 and 100 characters")
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, core.NewValidationError("page must be a positive integer")
		}
		req.Page = page
	}

	if raw := c.QueryParam("type"); raw != "" {
		req.Type = core.TitleType(raw)
		if !req.Type.Valid() {
			return req, core.NewValidationError("unknown title type: " + raw)
		}
	}

	if raw := c.QueryParam("minRating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || !core.ValidRating(rating) {
			return req, core.NewValidationError("minRating must be a number between 0 and 10")
		}
		req.MinRating = &rating
	}

	return req, nil
}

// GetMovie handles GET /v1/movies/:id
//
// @Summary      Get a movie by id
// @Tags         movies
// @Produce      json
// @Param        id   path      string  true  "Title id (e.g. tt0111161)"
// @Success      200  {object}  core.Movie
// @Failure      404  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /v1/movies/{id} [get]
func (h *Handler) GetMovie(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return handleError(c, core.NewValidationError("movie id is required"))
	}

	movie, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// ListGenres handles GET /v1/genres
//
// @Summary      List genres of the top-rated movies
// @Tags         genres
// @Produce      json
// @Param        stats  query     bool  false  "Include slug ids and movie counts"
// @Success      200    {object}  GenresResponse
// @Router       /v1/genres [get]
func (h *Handler) ListGenres(c echo.Context) error {
	ctx := c.Request().Context()

	withStats := false
	if raw := c.QueryParam("stats"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return handleError(c, core.NewValidationError("stats must be a boolean"))
		}
		withStats = v
	}

	if withStats {
		stats, err := h.service.ListGenreStats(ctx)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(http.StatusOK, GenresResponse{Genres: stats})
	}

	genres, err := h.service.ListGenres(ctx)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, GenresResponse{Genres: genres})
}

// CastTitles handles GET /v1/cast/:id/titles
//
// @Summary      Titles of a cast member
// @Tags         cast
// @Produce      json
// @Param        id   path      string  true  "Cast id (e.g. nm0000209)"
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/cast/{id}/titles [get]
func (h *Handler) CastTitles(c echo.Context) error {
	raw, err := h.service.CastTitles(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// ClearCache handles DELETE /v1/cache
//
// @Summary      Invalidate cached upstream responses
// @Tags         admin
// @Produce      json
// @Param        pattern  query     string  false  "Glob or substring of keys to drop; all when empty"
// @Success      200      {object}  map[string]string
// @Router       /v1/cache [delete]
func (h *Handler) ClearCache(c echo.Context) error {
	pattern := c.QueryParam("pattern")
	if err := h.service.ClearCache(c.Request().Context(), pattern); err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared", "pattern": pattern})
}

// handleError converts gateway errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var movieErr *core.MovieError
	if errors.As(err, &movieErr) {
		if movieErr.Type == core.ErrorTypeRateLimit {
			c.Response().Header().Set("Retry-After", strconv.Itoa(core.RetryAfterSeconds))
		}
		status := movieErr.HTTPStatusCode()
		if status >= http.StatusInternalServerError {
			slog.Error("request failed",
				"error_type", movieErr.Type,
				"error", movieErr,
				"request_id", core.GetRequestID(c.Request().Context()),
			)
		}
		return c.JSON(status, movieErr.ToJSON())
	}

	slog.Error("unexpected error", "error", err, "request_id", core.GetRequestID(c.Request().Context()))

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
