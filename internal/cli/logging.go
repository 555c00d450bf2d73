package cli

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger returns a text logger writing to w at the named level. Unknown
// level names fall back to warn.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
