// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBodySizeLimit is the maximum request body size accepted by the server (1MB).
const DefaultBodySizeLimit int64 = 1 << 20

// DefaultConfigPath is read when Load is called with an empty path.
const DefaultConfigPath = "config/config.yaml"

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                  string   `yaml:"port"`
	BodySizeLimit         int64    `yaml:"body_size_limit"`
	AdminEndpointsEnabled bool     `yaml:"admin_endpoints_enabled"`
	SwaggerEnabled        bool     `yaml:"swagger_enabled"`
	CORSAllowedOrigins    []string `yaml:"cors_allowed_origins"`
}

// UpstreamConfig holds the RapidAPI movie catalog settings.
// Credentials are validated by the upstream client before each call, not here.
type UpstreamConfig struct {
	APIKey  string `yaml:"api_key"`
	APIHost string `yaml:"api_host"`
	BaseURL string `yaml:"base_url"`
	// Timeout is the per-call timeout in seconds
	Timeout int `yaml:"timeout"`
	// MaxRetries applies to network failures and 5xx only; 429 is never retried
	MaxRetries int `yaml:"max_retries"`
	// SearchRows is the fixed page size requested from the search endpoint
	SearchRows int `yaml:"search_rows"`
	// DirectDetail prefers the by-id endpoint over scanning the top-rated list
	DirectDetail bool `yaml:"direct_detail"`
}

// DebugInfo describes the upstream configuration without exposing secrets.
func (u UpstreamConfig) DebugInfo() map[string]interface{} {
	return map[string]interface{}{
		"has_api_key":  u.APIKey != "",
		"has_host":     u.APIHost != "",
		"has_base_url": u.BaseURL != "",
	}
}

// CacheConfig holds cache backend settings. TTLs are in seconds.
type CacheConfig struct {
	Type            string      `yaml:"type"`
	MoviesTTL       int         `yaml:"movies_ttl"`
	GenresTTL       int         `yaml:"genres_ttl"`
	DetailsTTL      int         `yaml:"details_ttl"`
	SearchTTL       int         `yaml:"search_ttl"`
	CleanupInterval int         `yaml:"cleanup_interval"`
	Redis           RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis cache backend settings
type RedisConfig struct {
	URL string `yaml:"url"`
	// FlushOnStart drops the movies:* namespace at startup so nothing survives a restart
	FlushOnStart bool `yaml:"flush_on_start"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// LogConfig holds slog handler settings
type LogConfig struct {
	// Format is one of auto, json, pretty
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// HTTPConfig holds outbound transport settings in seconds.
// The whole-request timeout is Upstream.Timeout.
type HTTPConfig struct {
	ResponseHeaderTimeout int `yaml:"response_header_timeout"`
}

// buildDefaultConfig returns the configuration used when nothing is overridden.
func buildDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			BodySizeLimit: DefaultBodySizeLimit,
		},
		Upstream: UpstreamConfig{
			Timeout:      10,
			MaxRetries:   0,
			SearchRows:   100,
			DirectDetail: true,
		},
		Cache: CacheConfig{
			Type:            "memory",
			MoviesTTL:       3600,
			GenresTTL:       86400,
			DetailsTTL:      7200,
			SearchTTL:       3600,
			CleanupInterval: 600,
			Redis: RedisConfig{
				FlushOnStart: true,
			},
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Endpoint: "/metrics",
		},
		Log: LogConfig{
			Format: "auto",
			Level:  "info",
		},
		HTTP: HTTPConfig{
			ResponseHeaderTimeout: 10,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
// A .env file in the working directory is loaded first when present.
// An empty path reads DefaultConfigPath if it exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // a missing .env file is not an error

	cfg := buildDefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	if err := loadYAML(cfg, path, explicit); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandString(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would make the server unusable.
// Upstream credentials are intentionally not checked here.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port must not be empty"))
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.URL == "" {
			errs = append(errs, errors.New("cache.redis.url is required when cache.type is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.type %q (expected memory or redis)", c.Cache.Type))
	}
	if c.Upstream.SearchRows <= 0 {
		errs = append(errs, errors.New("upstream.search_rows must be positive"))
	}
	if c.Upstream.MaxRetries < 0 {
		errs = append(errs, errors.New("upstream.max_retries must not be negative"))
	}
	for name, ttl := range map[string]int{
		"movies_ttl":  c.Cache.MoviesTTL,
		"genres_ttl":  c.Cache.GenresTTL,
		"details_ttl": c.Cache.DetailsTTL,
		"search_ttl":  c.Cache.SearchTTL,
	} {
		if ttl <= 0 {
			errs = append(errs, fmt.Errorf("cache.%s must be positive", name))
		}
	}
	switch c.Log.Format {
	case "auto", "json", "pretty":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q (expected auto, json or pretty)", c.Log.Format))
	}
	return errors.Join(errs...)
}

// placeholderPattern matches ${VAR} and ${VAR:-default}.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandString replaces ${VAR} and ${VAR:-default} placeholders with environment values.
// Unset or empty variables without a default are left untouched.
func expandString(s string) string {
	if s == "" {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		name, hasDefault, def := groups[1], groups[2] != "", groups[3]
		if v := os.Getenv(name); v != "" {
			return v
		}
		if hasDefault {
			return def
		}
		return match
	})
}

// applyEnvOverrides overlays environment variables on top of cfg.
func applyEnvOverrides(cfg *Config) error {
	var errs []error

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setInt64 := func(key string, dst *int64) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	setString("PORT", &cfg.Server.Port)
	setInt64("BODY_SIZE_LIMIT", &cfg.Server.BodySizeLimit)
	setBool("ADMIN_ENDPOINTS_ENABLED", &cfg.Server.AdminEndpointsEnabled)
	setBool("SWAGGER_ENABLED", &cfg.Server.SwaggerEnabled)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.CORSAllowedOrigins = splitList(v)
	}

	setString("RAPIDAPI_KEY", &cfg.Upstream.APIKey)
	setString("RAPIDAPI_HOST", &cfg.Upstream.APIHost)
	setString("RAPIDAPI_BASE_URL", &cfg.Upstream.BaseURL)
	setInt("UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)
	setInt("UPSTREAM_MAX_RETRIES", &cfg.Upstream.MaxRetries)
	setInt("UPSTREAM_SEARCH_ROWS", &cfg.Upstream.SearchRows)
	setBool("UPSTREAM_DIRECT_DETAIL", &cfg.Upstream.DirectDetail)

	setString("CACHE_TYPE", &cfg.Cache.Type)
	setInt("CACHE_MOVIES_TTL", &cfg.Cache.MoviesTTL)
	setInt("CACHE_GENRES_TTL", &cfg.Cache.GenresTTL)
	setInt("CACHE_DETAILS_TTL", &cfg.Cache.DetailsTTL)
	setInt("CACHE_SEARCH_TTL", &cfg.Cache.SearchTTL)
	setInt("CACHE_CLEANUP_INTERVAL", &cfg.Cache.CleanupInterval)
	setString("REDIS_URL", &cfg.Cache.Redis.URL)
	setBool("REDIS_FLUSH_ON_START", &cfg.Cache.Redis.FlushOnStart)

	setBool("METRICS_ENABLED", &cfg.Metrics.Enabled)
	setString("METRICS_ENDPOINT", &cfg.Metrics.Endpoint)

	setString("LOG_FORMAT", &cfg.Log.Format)
	setString("LOG_LEVEL", &cfg.Log.Level)

	setInt("HTTP_RESPONSE_HEADER_TIMEOUT", &cfg.HTTP.ResponseHeaderTimeout)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
