// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger writing to w at the given level. Format "json" emits
// one JSON object per line, anything else a human readable console format.
// Unknown levels fall back to info.
func New(w io.Writer, level, format, service string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().
		Str("service", service).
		Timestamp().
		Logger()
}

// Setup installs a stderr logger as the global zerolog logger
func Setup(level, format, service string) zerolog.Logger {
	logger := New(os.Stderr, level, format, service)
	zerolog.SetGlobalLevel(logger.GetLevel())
	log.Logger = logger
	return logger
}
