// Package eventlog provides the append-only event log every pxefirst run
// writes to.
//
// Records are plain text, one timestamped key=value line per event, written
// by the log/slog text handler and exposed through the logr API.
package eventlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
)

// Options configures the event log.
type Options struct {
	// Path is the log file. An empty path logs to Fallback only.
	Path string

	// Level is "debug" or "info". Debug enables V(1) records.
	Level string

	// Fallback receives records when Path cannot be opened. Defaults to stderr.
	Fallback io.Writer
}

// Open opens the event log for appending and returns a logger writing to it
// together with a close function. If the file cannot be opened the logger
// writes to Fallback and the open error is returned alongside it so the caller
// can report it once; the returned logger is always usable.
func Open(opts Options) (logr.Logger, func() error, error) {
	fallback := opts.Fallback
	if fallback == nil {
		fallback = os.Stderr
	}
	noop := func() error { return nil }

	if opts.Path == "" {
		return New(fallback, opts.Level), noop, nil
	}

	f, err := openAppend(opts.Path)
	if err != nil {
		return New(fallback, opts.Level), noop, fmt.Errorf("failed to open event log %s: %w", opts.Path, err)
	}
	return New(f, opts.Level), f.Close, nil
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// New returns a logr.Logger backed by a slog text handler on w.
func New(w io.Writer, level string) logr.Logger {
	opts := &slog.HandlerOptions{}
	switch level {
	case "debug":
		opts.Level = slog.LevelDebug
	default:
		opts.Level = slog.LevelInfo
	}
	return logr.FromSlogHandler(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() logr.Logger {
	return logr.Discard()
}
