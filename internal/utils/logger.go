package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ParseLevel maps a level name to slog, falling back to info
func ParseLevel(level string) slog.Level {
	switch LogLevel(strings.ToLower(strings.TrimSpace(level))) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured logger writing to w. Production output is
// JSON, anything else is text.
func NewLogger(w io.Writer, level string, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupLogging configures the global slog handler.
// CLI output goes to stdout, so logs go to stderr.
func SetupLogging(logLevel string, production bool) *slog.Logger {
	logger := NewLogger(os.Stderr, logLevel, production)
	slog.SetDefault(logger)
	return logger
}
