package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviegate/config"
	"moviegate/internal/upstream"
)

func testAppConfig(baseURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                  "0",
			AdminEndpointsEnabled: true,
		},
		Upstream: config.UpstreamConfig{
			APIKey:       "test-key",
			APIHost:      "imdb236.p.rapidapi.com",
			BaseURL:      baseURL,
			Timeout:      5,
			SearchRows:   100,
			DirectDetail: true,
		},
		Cache: config.CacheConfig{
			Type:            "memory",
			MoviesTTL:       3600,
			GenresTTL:       86400,
			DetailsTTL:      7200,
			SearchTTL:       3600,
			CleanupInterval: 600,
		},
		Metrics: config.MetricsConfig{Enabled: true, Endpoint: "/metrics"},
		Log:     config.LogConfig{Format: "json", Level: "info"},
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestApp_ServesTopRatedThroughCache(t *testing.T) {
	var calls atomic.Int32
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-key", r.Header.Get(upstream.HeaderAPIKey))
		assert.Equal(t, upstream.PathTopRated, r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"tt1","primaryTitle":"X","genres":["Drama"],"averageRating":8.1}]`))
	}))
	defer upstreamSrv.Close()

	application, err := New(context.Background(), Config{AppConfig: testAppConfig(upstreamSrv.URL)})
	require.NoError(t, err)
	defer func() { _ = application.Shutdown(context.Background()) }()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/movies/top?genre=drama", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Movies []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				Genre string `json:"genre"`
			} `json:"movies"`
			TotalResults int `json:"totalResults"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Movies, 1)
		assert.Equal(t, "tt1", body.Movies[0].ID)
		assert.Equal(t, "X", body.Movies[0].Title)
		assert.Equal(t, "Drama", body.Movies[0].Genre)
		assert.Equal(t, 1, body.TotalResults)
	}
	assert.Equal(t, int32(1), calls.Load())

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "moviegate_cache_lookups_total")
	assert.Contains(t, rec.Body.String(), "moviegate_upstream_requests_total")
}

func TestApp_HealthReportsMissingCredentials(t *testing.T) {
	cfg := testAppConfig("")
	cfg.Upstream.APIKey = ""
	cfg.Upstream.APIHost = ""

	application, err := New(context.Background(), Config{AppConfig: cfg})
	require.NoError(t, err, "missing credentials do not prevent startup")
	defer func() { _ = application.Shutdown(context.Background()) }()

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string `json:"status"`
		Upstream struct {
			Configured bool            `json:"configured"`
			Debug      map[string]bool `json:"debug"`
		} `json:"upstream"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.Upstream.Configured)
	assert.False(t, body.Upstream.Debug["has_api_key"])

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/movies/top", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "configuration_error")
}

func TestApp_ShutdownIsIdempotent(t *testing.T) {
	application, err := New(context.Background(), Config{AppConfig: testAppConfig("http://127.0.0.1:1")})
	require.NoError(t, err)

	assert.NoError(t, application.Shutdown(context.Background()))
	assert.NoError(t, application.Shutdown(context.Background()))
}

func TestInitCache_RedisUnreachable(t *testing.T) {
	_, err := initCache(context.Background(), config.CacheConfig{
		Type:  "redis",
		Redis: config.RedisConfig{URL: "redis://127.0.0.1:1/0"},
	})
	assert.Error(t, err)
}
