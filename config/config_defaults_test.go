package config

import (
	"testing"
)

func TestLoad_WithDefaults(t *testing.T) {
	configContent := `
server:
  port: "${TEST_PORT_DEFAULTS:-9999}"
upstream:
  api_key: "${TEST_KEY_DEFAULTS:-default-key}"
`

	// 1. Test Default Value
	t.Run("UseDefaultValue", func(t *testing.T) {
		t.Chdir(t.TempDir())
		path := writeConfigFile(t, configContent)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}

		if cfg.Server.Port != "9999" {
			t.Errorf("Expected port 9999 (default), got %s", cfg.Server.Port)
		}
		if cfg.Upstream.APIKey != "default-key" {
			t.Errorf("Expected API key 'default-key', got %s", cfg.Upstream.APIKey)
		}
	})

	// 2. Test Env Var Override
	t.Run("OverrideDefaultValue", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("TEST_PORT_DEFAULTS", "1111")
		t.Setenv("TEST_KEY_DEFAULTS", "real-key")
		path := writeConfigFile(t, configContent)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}

		if cfg.Server.Port != "1111" {
			t.Errorf("Expected port 1111 (env override), got %s", cfg.Server.Port)
		}
		if cfg.Upstream.APIKey != "real-key" {
			t.Errorf("Expected API key 'real-key', got %s", cfg.Upstream.APIKey)
		}
	})
}
