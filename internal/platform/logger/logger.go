// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

// New builds a slog.Logger for the given environment.
// Production logs JSON at info level, everything else logs text at debug level.
func New(env string) *slog.Logger {
	var h slog.Handler
	if env == "prod" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(h)
}
