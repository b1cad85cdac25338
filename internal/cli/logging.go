package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// newLogger returns a text logger on w tagged with a fresh session id.
func newLogger(w io.Writer, level string) (*slog.Logger, string, error) {
	var lvl slog.Level
	if s := strings.TrimSpace(level); s != "" {
		if err := lvl.UnmarshalText([]byte(s)); err != nil {
			return nil, "", fmt.Errorf("invalid log level %q: %w", level, err)
		}
	} else {
		lvl = slog.LevelWarn
	}
	session := uuid.NewString()
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h).With("session", session), session, nil
}
