// Package app provides the main application struct for centralized dependency management
// and lifecycle control of the movie gateway.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"moviegate/config"
	"moviegate/internal/cache"
	"moviegate/internal/httpclient"
	"moviegate/internal/movies"
	"moviegate/internal/observability"
	"moviegate/internal/server"
	"moviegate/internal/upstream"
)

// App represents the main application with all its dependencies.
// It provides centralized lifecycle management for all components.
type App struct {
	config   *config.Config
	cache    cache.Cache
	upstream *upstream.Client
	service  *movies.Service
	server   *server.Server

	shutdownMu sync.Mutex
	shutdown   bool
}

// Config holds the configuration options for creating an App.
type Config struct {
	// AppConfig is the loaded application configuration
	AppConfig *config.Config

	// HTTPClient overrides the outbound client used for upstream calls (optional)
	HTTPClient *http.Client
}

// New creates a new App with all dependencies initialized.
// The caller must call Shutdown to release resources.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.AppConfig == nil {
		return nil, fmt.Errorf("app config is required")
	}
	appCfg := cfg.AppConfig

	app := &App{
		config: appCfg,
	}

	responseCache, err := initCache(ctx, appCfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if appCfg.Metrics.Enabled {
		responseCache = observability.NewInstrumentedCache(responseCache)
	}
	app.cache = responseCache

	app.upstream = newUpstreamClient(appCfg, cfg.HTTPClient)

	app.service = movies.NewService(app.upstream, app.cache, movies.Config{
		TTLs: movies.TTLs{
			Movies:  seconds(appCfg.Cache.MoviesTTL),
			Genres:  seconds(appCfg.Cache.GenresTTL),
			Details: seconds(appCfg.Cache.DetailsTTL),
			Search:  seconds(appCfg.Cache.SearchTTL),
		},
		SearchRows:   appCfg.Upstream.SearchRows,
		DirectDetail: appCfg.Upstream.DirectDetail,
	})

	// Log configuration status
	app.logStartupInfo()

	serverCfg := &server.Config{
		MetricsEnabled:        appCfg.Metrics.Enabled,
		MetricsEndpoint:       appCfg.Metrics.Endpoint,
		BodySizeLimit:         appCfg.Server.BodySizeLimit,
		AdminEndpointsEnabled: appCfg.Server.AdminEndpointsEnabled,
		SwaggerEnabled:        appCfg.Server.SwaggerEnabled,
		CORSAllowedOrigins:    appCfg.Server.CORSAllowedOrigins,
		UpstreamInfo:          app.upstreamInfo,
	}

	if appCfg.Server.AdminEndpointsEnabled {
		slog.Info("admin API enabled", "api", "DELETE /v1/cache")
	} else {
		slog.Info("admin API disabled")
	}
	if appCfg.Server.SwaggerEnabled {
		slog.Info("swagger UI enabled", "path", "/swagger/index.html")
	}

	app.server = server.New(app.service, serverCfg)

	return app, nil
}

func newUpstreamClient(appCfg *config.Config, httpClient *http.Client) *upstream.Client {
	upCfg := upstream.DefaultConfig(appCfg.Upstream.APIKey, appCfg.Upstream.APIHost, appCfg.Upstream.BaseURL)
	upCfg.MaxRetries = appCfg.Upstream.MaxRetries

	if httpClient == nil {
		httpClient = httpclient.New(httpclient.ConfigWithTimeouts(
			appCfg.Upstream.Timeout,
			appCfg.HTTP.ResponseHeaderTimeout,
		))
	}

	opts := []upstream.Option{upstream.WithHTTPClient(httpClient)}
	if appCfg.Metrics.Enabled {
		opts = append(opts, upstream.WithHooks(observability.NewPrometheusHooks()))
	}
	return upstream.New(upCfg, opts...)
}

// initCache builds the configured backend. A Redis namespace left over from a
// previous process is dropped when flush_on_start is set.
func initCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.Redis.URL})
		if err != nil {
			return nil, err
		}
		if cfg.Redis.FlushOnStart {
			removed, err := redisCache.ClearPattern(ctx, cache.PatternAll)
			if err != nil {
				_ = redisCache.Close()
				return nil, fmt.Errorf("failed to flush redis cache: %w", err)
			}
			slog.Info("redis cache flushed on start", "removed", removed)
		}
		return redisCache, nil
	default:
		return cache.NewMemoryCache(seconds(cfg.CleanupInterval)), nil
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// upstreamInfo reports whether upstream credentials are usable, without secrets.
func (a *App) upstreamInfo() server.UpstreamInfo {
	return server.UpstreamInfo{
		Configured: a.upstream.Config().Validate() == nil,
		Debug:      a.config.Upstream.DebugInfo(),
	}
}

// Service returns the movie query service.
func (a *App) Service() *movies.Service {
	return a.service
}

// Handler returns the HTTP handler of the app, for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.server
}

// Start starts the HTTP server on the given address.
// This is a blocking call that returns when the server stops.
func (a *App) Start(addr string) error {
	if a.server == nil {
		return fmt.Errorf("server is not initialized")
	}
	slog.Info("starting server", "address", addr)
	if err := a.server.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully tears down app components in dependency order.
// Order:
// 1. HTTP server shutdown via server.Shutdown(ctx), honoring the passed context timeout/cancellation.
// 2. Cache close (releases the Redis connection pool, if any).
//
// Shutdown is idempotent and safe for repeated calls; after the first call, subsequent calls are no-ops.
// It attempts every close step, aggregates failures, and returns a joined error if any step fails.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownMu.Lock()
	if a.shutdown {
		a.shutdownMu.Unlock()
		return nil
	}
	a.shutdown = true
	a.shutdownMu.Unlock()

	slog.Info("shutting down application...")

	var errs []error

	// 1. Shutdown HTTP server first (stop accepting new requests)
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	// 2. Close cache
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			slog.Error("cache close error", "error", err)
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	slog.Info("application shutdown complete")
	return nil
}

// logStartupInfo logs the application configuration on startup.
func (a *App) logStartupInfo() {
	cfg := a.config

	// Upstream credentials are checked again on every call; this only warns early
	if err := a.upstream.Config().Validate(); err != nil {
		slog.Warn("upstream not configured - catalog requests will fail until credentials are set",
			"error", err,
			"debug", cfg.Upstream.DebugInfo(),
		)
	} else {
		slog.Info("upstream configured",
			"host", cfg.Upstream.APIHost,
			"direct_detail", cfg.Upstream.DirectDetail,
			"search_rows", cfg.Upstream.SearchRows,
			"max_retries", cfg.Upstream.MaxRetries,
		)
	}

	slog.Info("cache configured",
		"type", cfg.Cache.Type,
		"movies_ttl", seconds(cfg.Cache.MoviesTTL),
		"genres_ttl", seconds(cfg.Cache.GenresTTL),
		"details_ttl", seconds(cfg.Cache.DetailsTTL),
		"search_ttl", seconds(cfg.Cache.SearchTTL),
	)

	// Metrics configuration
	if cfg.Metrics.Enabled {
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	} else {
		slog.Info("prometheus metrics disabled")
	}
}
