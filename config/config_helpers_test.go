package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExpandString tests the expandString function with various scenarios
func TestExpandString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		envVars  map[string]string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			envVars:  map[string]string{},
			expected: "",
		},
		{
			name:     "string without placeholders",
			input:    "simple-string",
			envVars:  map[string]string{},
			expected: "simple-string",
		},
		{
			name:     "simple variable expansion",
			input:    "${API_KEY}",
			envVars:  map[string]string{"API_KEY": "sk-12345"},
			expected: "sk-12345",
		},
		{
			name:     "variable in middle of string",
			input:    "prefix-${API_KEY}-suffix",
			envVars:  map[string]string{"API_KEY": "sk-12345"},
			expected: "prefix-sk-12345-suffix",
		},
		{
			name:     "multiple variables",
			input:    "${SCHEME}://${HOST}:${PORT}",
			envVars:  map[string]string{"SCHEME": "https", "HOST": "api.example.com", "PORT": "8080"},
			expected: "https://api.example.com:8080",
		},
		{
			name:     "variable with default value - env var exists",
			input:    "${API_KEY:-default-key}",
			envVars:  map[string]string{"API_KEY": "sk-real-key"},
			expected: "sk-real-key",
		},
		{
			name:     "variable with default value - env var missing",
			input:    "${API_KEY:-default-key}",
			envVars:  map[string]string{},
			expected: "default-key",
		},
		{
			name:     "variable with default value - env var empty",
			input:    "${API_KEY:-default-key}",
			envVars:  map[string]string{"API_KEY": ""},
			expected: "default-key",
		},
		{
			name:     "unresolved variable - no default",
			input:    "${MISSING_VAR}",
			envVars:  map[string]string{},
			expected: "${MISSING_VAR}",
		},
		{
			name:     "partially resolved string",
			input:    "${RESOLVED}-${UNRESOLVED}",
			envVars:  map[string]string{"RESOLVED": "value1"},
			expected: "value1-${UNRESOLVED}",
		},
		{
			name:     "mixed resolved and unresolved with defaults",
			input:    "${RESOLVED}:${UNRESOLVED:-fallback}:${MISSING}",
			envVars:  map[string]string{"RESOLVED": "value1"},
			expected: "value1:fallback:${MISSING}",
		},
		{
			name:     "default value with special characters",
			input:    "${API_KEY:-https://api.example.com/v1}",
			envVars:  map[string]string{},
			expected: "https://api.example.com/v1",
		},
		{
			name:     "default value with colon in it",
			input:    "${URL:-http://localhost:8080}",
			envVars:  map[string]string{},
			expected: "http://localhost:8080",
		},
		{
			name:     "complex real-world example",
			input:    "${BASE_URL:-https://imdb236.p.rapidapi.com}/api/imdb/top250-movies",
			envVars:  map[string]string{},
			expected: "https://imdb236.p.rapidapi.com/api/imdb/top250-movies",
		},
		{
			name:     "environment variable set to empty string (no default)",
			input:    "${EMPTY_VAR}",
			envVars:  map[string]string{"EMPTY_VAR": ""},
			expected: "${EMPTY_VAR}",
		},
		{
			name:     "empty default value - env var missing",
			input:    "${OPTIONAL_VAR:-}",
			envVars:  map[string]string{},
			expected: "",
		},
		{
			name:     "empty default value - env var set",
			input:    "${OPTIONAL_VAR:-}",
			envVars:  map[string]string{"OPTIONAL_VAR": "actual-value"},
			expected: "actual-value",
		},
		{
			name:     "empty default value - env var empty",
			input:    "${OPTIONAL_VAR:-}",
			envVars:  map[string]string{"OPTIONAL_VAR": ""},
			expected: "",
		},
		{
			name:     "api key pattern - not set should be empty",
			input:    "${RAPIDAPI_KEY:-}",
			envVars:  map[string]string{},
			expected: "",
		},
		{
			name:     "api key pattern - set to value",
			input:    "${RAPIDAPI_KEY:-}",
			envVars:  map[string]string{"RAPIDAPI_KEY": "secret-key"},
			expected: "secret-key",
		},
		{
			name:     "multiple placeholders some resolved some not",
			input:    "prefix-${VAR1}-${VAR2}-${VAR3}-suffix",
			envVars:  map[string]string{"VAR1": "a", "VAR3": "c"},
			expected: "prefix-a-${VAR2}-c-suffix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				_ = os.Setenv(k, v)
			}
			defer func() {
				for k := range tt.envVars {
					_ = os.Unsetenv(k)
				}
			}()

			result := expandString(tt.input)
			if result != tt.expected {
				t.Errorf("expandString(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestApplyEnvOverrides tests the applyEnvOverrides function
func TestApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "PORT override",
			envVars: map[string]string{"PORT": "3000"},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, "3000", cfg.Server.Port)
			},
		},
		{
			name: "upstream credentials",
			envVars: map[string]string{
				"RAPIDAPI_KEY":      "rk-123",
				"RAPIDAPI_HOST":     "imdb236.p.rapidapi.com",
				"RAPIDAPI_BASE_URL": "https://proxy.internal/api/imdb",
			},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, "rk-123", cfg.Upstream.APIKey)
				require.Equal(t, "imdb236.p.rapidapi.com", cfg.Upstream.APIHost)
				require.Equal(t, "https://proxy.internal/api/imdb", cfg.Upstream.BaseURL)
			},
		},
		{
			name:    "cache overrides",
			envVars: map[string]string{"CACHE_TYPE": "redis", "REDIS_URL": "redis://localhost:6379/1", "CACHE_MOVIES_TTL": "60", "REDIS_FLUSH_ON_START": "false"},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, "redis", cfg.Cache.Type)
				require.Equal(t, "redis://localhost:6379/1", cfg.Cache.Redis.URL)
				require.Equal(t, 60, cfg.Cache.MoviesTTL)
				require.False(t, cfg.Cache.Redis.FlushOnStart)
			},
		},
		{
			name:    "bool overrides",
			envVars: map[string]string{"METRICS_ENABLED": "true", "ADMIN_ENDPOINTS_ENABLED": "1", "UPSTREAM_DIRECT_DETAIL": "false"},
			check: func(t *testing.T, cfg *Config) {
				require.True(t, cfg.Metrics.Enabled)
				require.True(t, cfg.Server.AdminEndpointsEnabled)
				require.False(t, cfg.Upstream.DirectDetail)
			},
		},
		{
			name:    "CORS origins are split and trimmed",
			envVars: map[string]string{"CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://movies.example.com ,"},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, []string{"http://localhost:3000", "https://movies.example.com"}, cfg.Server.CORSAllowedOrigins)
			},
		},
		{
			name:    "timeout overrides",
			envVars: map[string]string{"UPSTREAM_TIMEOUT": "30", "HTTP_RESPONSE_HEADER_TIMEOUT": "20"},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, 30, cfg.Upstream.Timeout)
				require.Equal(t, 20, cfg.HTTP.ResponseHeaderTimeout)
			},
		},
		{
			name:    "no env vars set preserves defaults",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, "8080", cfg.Server.Port)
				require.Equal(t, 100, cfg.Upstream.SearchRows)
				require.Equal(t, 3600, cfg.Cache.MoviesTTL)
				require.Equal(t, 86400, cfg.Cache.GenresTTL)
				require.Equal(t, 7200, cfg.Cache.DetailsTTL)
				require.True(t, cfg.Upstream.DirectDetail)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := buildDefaultConfig()
			require.NoError(t, applyEnvOverrides(cfg))
			tt.check(t, cfg)
		})
	}
}

func TestApplyEnvOverrides_InvalidValues(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "ten")
	t.Setenv("METRICS_ENABLED", "maybe")

	err := applyEnvOverrides(buildDefaultConfig())
	require.Error(t, err)
	require.Contains(t, err.Error(), "UPSTREAM_TIMEOUT")
	require.Contains(t, err.Error(), "METRICS_ENABLED")
}
