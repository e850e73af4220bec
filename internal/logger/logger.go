package logger

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
)

// New returns a logger writing to path. The terminal belongs to the dashboard while it runs, so
// nothing is logged to stdout or stderr.
func New(path string, debug bool) (*slog.Logger, *os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not open log file %s", path)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	// Create a text handler that writes to the file
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	// Create a logger with the file handler
	return slog.New(handler), file, nil
}
