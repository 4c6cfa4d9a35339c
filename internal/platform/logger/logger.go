package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelNone silences all output; useful in tests.
const LevelNone = slog.Level(100)

// New returns the process logger writing to stdout.
func New(level slog.Level, environment string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, environment)
}

// NewWithWriter picks a coloured text handler for local environments
// and structured JSON everywhere else.
func NewWithWriter(w io.Writer, level slog.Level, environment string) *slog.Logger {
	switch environment {
	case "dev", "test":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    environment == "test",
		}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

// ParseLogLevel maps LOG_LEVEL values to slog levels; unknown values mean info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		return LevelNone
	default:
		return slog.LevelInfo
	}
}
