package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_ExampleConfig(t *testing.T) {
	example, err := filepath.Abs("config.example.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("RAPIDAPI_KEY", "")
	t.Setenv("RAPIDAPI_HOST", "")

	cfg, err := Load(example)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Upstream.APIHost != "imdb236.p.rapidapi.com" {
		t.Errorf("expected default host, got %s", cfg.Upstream.APIHost)
	}
	if cfg.Upstream.APIKey != "" {
		t.Errorf("expected empty api key, got %q", cfg.Upstream.APIKey)
	}
	if cfg.Cache.Type != "memory" || cfg.Cache.DetailsTTL != 7200 {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
}
