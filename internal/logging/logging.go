// Package logging builds the slog handler used by the gateway: colorized output
// on a terminal for local development, JSON everywhere else.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Supported output formats.
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// NewHandler returns a handler writing to w in the given format.
// FormatAuto picks pretty output when w is a terminal.
func NewHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	if format == FormatAuto || format == "" {
		format = FormatJSON
		if isTerminal(w) {
			format = FormatPretty
		}
	}

	if format == FormatPretty {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(w),
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// New creates a logger for os.Stdout. Unknown levels fall back to info.
func New(format, level string) *slog.Logger {
	lvl, err := ParseLevel(level)
	logger := slog.New(NewHandler(os.Stdout, format, lvl))
	if err != nil {
		logger.Warn("invalid log level, using info", "level", level)
	}
	return logger
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
