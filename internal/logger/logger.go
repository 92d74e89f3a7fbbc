// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alkime/knobs/internal/config"
)

// SetupLogger configures structured logging based on environment.
func SetupLogger(cfg *config.Config) *slog.Logger {
	return SetupLoggerTo(os.Stdout, cfg)
}

// SetupLoggerTo is SetupLogger writing to w. The TUI owns stdout, so it
// logs to a file instead.
func SetupLoggerTo(w io.Writer, cfg *config.Config) *slog.Logger {
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: Level(cfg),
	})

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}

// Level parses LOG_LEVEL, defaulting to info. Development always logs at debug.
func Level(cfg *config.Config) slog.Level {
	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
			level = slog.LevelInfo
		}
	}

	if cfg.Env == config.EnvDevelopment {
		level = min(level, slog.LevelDebug)
	}

	return level
}
