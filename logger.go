package main

import (
	"io"
	"log/slog"
)

// NewLogger returns a structured JSON logger. Debug lowers the level and
// adds source locations.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
