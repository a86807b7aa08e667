package logger

import (
	"log/slog"
	"os"
)

// NewHandler creates a JSON slog handler writing to stdout.
// A nil opts falls back to the level from the LOG_LEVEL env var.
func NewHandler(opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{
			Level: levelFromEnv(),
		}
	}

	return slog.NewJSONHandler(os.Stdout, opts)
}

func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
