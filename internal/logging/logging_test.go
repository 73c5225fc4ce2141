package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler_AutoOnBufferIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, FormatAuto, slog.LevelInfo))

	logger.Info("upstream request", "endpoint", "top250", "status", 200)
	logger.Debug("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "upstream request", entry["msg"])
	assert.Equal(t, "top250", entry["endpoint"])
	assert.Equal(t, float64(200), entry["status"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewHandler_PrettyWithoutTerminalHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, FormatPretty, slog.LevelDebug))

	logger.Warn("cache write failed", "key", "movies:top250")

	out := buf.String()
	assert.Contains(t, out, "cache write failed")
	assert.Contains(t, out, "key=movies:top250")
	assert.NotContains(t, out, "\033[")
}
