// Package logger configures structured logging for the client.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Format is the output encoding for log records.
type Format string

const (
	// FormatJSON emits one JSON object per record (production default)
	FormatJSON Format = "json"
	// FormatText emits human-readable key=value records
	FormatText Format = "text"
)

// New builds a structured logger from LOG_LEVEL and LOG_FORMAT.
//
// LOG_LEVEL options: debug, info, warn, error (default: info)
// LOG_FORMAT options: json, text (default: json)
func New() *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level: level,
		// Source locations only in debug runs
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	switch parseFormat(os.Getenv("LOG_FORMAT")) {
	case FormatText:
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// SetDefault installs the logger as the process-wide default.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseFormat(s string) Format {
	if strings.ToLower(s) == "text" {
		return FormatText
	}
	return FormatJSON
}
