// Package logging builds the process logger.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps debug|info|warn|error|off to a zerolog level. Unknown
// values map to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing to w. Format "json" writes one JSON object
// per line; anything else uses the human-readable console writer.
func New(level, format string, w io.Writer) zerolog.Logger {
	out := w
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !isTerminal(w)}
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

type fdWriter interface{ Fd() uintptr }

// isTerminal reports whether w is file-backed; only those get colors.
func isTerminal(w io.Writer) bool {
	_, ok := w.(fdWriter)
	return ok
}
