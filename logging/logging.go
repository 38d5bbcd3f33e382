// Package logging constructs the structured loggers weft components share.
//
// Output goes to stderr so stdout stays free for command output. Daemons
// log JSON for ingestion; the text handler suits interactive use.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler and minimum level for a component logger.
type Config struct {
	// Service tags every record, e.g. "weft-casd".
	Service string

	// Level is one of "debug", "info", "warn", "error". Empty means info.
	Level string

	// JSON selects the JSON handler over text.
	JSON bool

	// Output overrides the destination. Nil means stderr.
	Output io.Writer
}

// New builds a logger per cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	log := slog.New(h)
	if cfg.Service != "" {
		log = log.With("service", cfg.Service)
	}
	return log
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
