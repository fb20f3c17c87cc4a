package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. Initialize replaces it; until then a
// text handler at info level is in place so early code and tests can log.
var Log *slog.Logger

func init() {
	Initialize("info", false)
}

// Initialize configures the global logger. useJSON switches to a JSON
// handler for log aggregation in production.
func Initialize(level string, useJSON bool) {
	opts := &slog.HandlerOptions{
		Level:     levelFromString(level),
		AddSource: true,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if useJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func levelFromString(level string) slog.Level {
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
