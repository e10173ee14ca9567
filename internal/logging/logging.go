// Package logging builds the process slog logger from configuration values.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel normalizes a log level string into slog.Level.
// Unknown values return slog.LevelInfo with an error.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "err":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("invalid log level: " + s)
	}
}

type Options struct {
	Level  string
	JSON   bool
	Writer io.Writer // defaults to stdout
}

// New constructs a logger and installs it as the slog default.
func New(opt Options) (*slog.Logger, error) {
	level, err := ParseLevel(opt.Level)
	if err != nil {
		return nil, err
	}
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	ho := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if opt.JSON {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}
	lg := slog.New(h)
	slog.SetDefault(lg)
	return lg, nil
}
