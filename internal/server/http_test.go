package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "moviegate/cmd/moviegate/docs"
	"moviegate/internal/core"
)

func TestRequestIDMiddleware(t *testing.T) {
	mock := &mockService{list: &core.MovieList{Movies: []core.Movie{}}}
	srv := New(mock, nil)

	t.Run("generates request ID when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		got := rec.Header().Get("X-Request-ID")
		if got == "" {
			t.Fatal("expected X-Request-ID in response header, got empty")
		}
		// Validate UUID format (8-4-4-4-12 hex digits)
		if len(got) != 36 {
			t.Errorf("expected UUID (36 chars), got %q (%d chars)", got, len(got))
		}
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "my-custom-id")
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "my-custom-id" {
			t.Errorf("expected response header X-Request-ID to be %q, got %q", "my-custom-id", got)
		}
	})
}

// requestIDRecorder records the request id seen by the service
type requestIDRecorder struct {
	mockService
	seen string
}

func (r *requestIDRecorder) ListTopRated(ctx context.Context, _ string) (*core.MovieList, error) {
	r.seen = core.GetRequestID(ctx)
	return &core.MovieList{Movies: []core.Movie{}}, nil
}

func TestRequestIDPropagatesToService(t *testing.T) {
	svc := &requestIDRecorder{}
	srv := New(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/movies/top", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-42", svc.seen)
}

func TestMetricsEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		config         *Config
		requestPath    string
		expectedStatus int
		expectBody     string // substring to check in response body
	}{
		{
			name: "metrics enabled - default endpoint accessible",
			config: &Config{
				MetricsEnabled:  true,
				MetricsEndpoint: "/metrics",
			},
			requestPath:    "/metrics",
			expectedStatus: http.StatusOK,
			expectBody:     "go_goroutines",
		},
		{
			name: "metrics enabled - empty endpoint defaults to /metrics",
			config: &Config{
				MetricsEnabled: true,
			},
			requestPath:    "/metrics",
			expectedStatus: http.StatusOK,
			expectBody:     "go_goroutines",
		},
		{
			name: "metrics disabled - endpoint returns 404",
			config: &Config{
				MetricsEnabled:  false,
				MetricsEndpoint: "/metrics",
			},
			requestPath:    "/metrics",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "nil config - metrics disabled by default",
			config:         nil,
			requestPath:    "/metrics",
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "custom metrics endpoint path",
			config: &Config{
				MetricsEnabled:  true,
				MetricsEndpoint: "/internal/../custom-metrics",
			},
			requestPath:    "/custom-metrics",
			expectedStatus: http.StatusOK,
			expectBody:     "go_goroutines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&mockService{}, tt.config)

			rec := serve(t, srv, http.MethodGet, tt.requestPath)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectBody != "" && !strings.Contains(rec.Body.String(), tt.expectBody) {
				t.Errorf("expected body to contain %q", tt.expectBody)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("without upstream info", func(t *testing.T) {
		rec := serve(t, New(&mockService{}, nil), http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("with upstream info", func(t *testing.T) {
		srv := New(&mockService{}, &Config{
			UpstreamInfo: func() UpstreamInfo {
				return UpstreamInfo{Configured: false, Debug: map[string]interface{}{"has_api_key": false}}
			},
		})

		rec := serve(t, srv, http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, rec.Code)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		require.NotNil(t, body.Upstream)
		assert.False(t, body.Upstream.Configured)
		assert.Equal(t, false, body.Upstream.Debug["has_api_key"])
	})
}

func TestCORS(t *testing.T) {
	srv := New(&mockService{}, &Config{CORSAllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/movies/top", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSwaggerEndpoint_Enabled(t *testing.T) {
	srv := New(&mockService{}, &Config{SwaggerEnabled: true})

	rec := serve(t, srv, http.MethodGet, "/swagger/index.html")

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if contentType := rec.Header().Get("Content-Type"); !strings.Contains(contentType, "text/html") {
		t.Errorf("expected text/html Content-Type, got %s", contentType)
	}
}

func TestSwaggerEndpoint_Disabled(t *testing.T) {
	rec := serve(t, New(&mockService{}, nil), http.MethodGet, "/swagger/index.html")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestSwaggerDocJson_ReturnsExpectedContent(t *testing.T) {
	srv := New(&mockService{}, &Config{SwaggerEnabled: true})

	rec := serve(t, srv, http.MethodGet, "/swagger/doc.json")

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "MovieGate") {
		t.Errorf("expected doc.json to contain the API title, got: %s", body[:min(300, len(body))])
	}
	if !strings.Contains(body, "/v1/movies/search") {
		t.Errorf("expected doc.json to describe the search route")
	}
}
