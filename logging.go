package main

import (
	"io"
	"log/slog"

	"github.com/chazu/cubetree/pkg/config"
)

// buildLogger returns the process logger: a text or JSON handler on w at
// the configured level, forced to debug when verbose is set.
func buildLogger(cfg *config.Config, verbose bool, w io.Writer) *slog.Logger {
	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler)
}
