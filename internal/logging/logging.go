package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger writing text output to STDERR so reports and
// JSON results on STDOUT stay machine-readable.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewWriter returns a logger writing to w, for tests.
func NewWriter(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}
