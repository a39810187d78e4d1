package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

func Init(env string) {
	Setup(env, "", "")
}

// Setup installs the process-wide logger. Empty level or format fall back to
// the defaults for env: JSON at info in production, text at debug otherwise.
func Setup(env, level, format string) *slog.Logger {
	defaultLogger = New(os.Stdout, env, level, format)
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

func New(w io.Writer, env, level, format string) *slog.Logger {
	lvl := slog.LevelDebug
	if env == "production" {
		lvl = slog.LevelInfo
	}
	if level != "" {
		lvl = ParseLevel(level)
	}
	if format == "" {
		format = "text"
		if env == "production" {
			format = "json"
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
