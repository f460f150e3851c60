// Package logging configures the process logger.
package logging

import (
	"io"
	"log/slog"
)

// Level picks the log level for the CLI flags. Informational records stay
// hidden unless --debug is given, so command output is not interleaved with
// engine chatter; --quiet hides warnings too.
func Level(debug, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

