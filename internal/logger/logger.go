// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps debug, info, warn or error to a slog level. The empty
// string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger. Inside GitHub Actions it emits plain logfmt lines
// that the job log shows verbatim; locally it uses PrettyHandler.
func New(w io.Writer, level slog.Level, inActions bool) *slog.Logger {
	if inActions {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(NewPrettyHandler(w, level))
}

// Setup installs the logger returned by New as the slog default.
func Setup(w io.Writer, levelName string, inActions bool) error {
	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	slog.SetDefault(New(w, level, inActions))
	return nil
}
