// Package logging builds the application logger: timestamped text lines to
// a base writer and, best effort, to an append-only log file.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// swallowWriter passes writes through and reports success regardless of the
// outcome. A full disk or revoked permission on the log file must never
// interrupt an indexing run.
type swallowWriter struct {
	w io.Writer
}

func (s swallowWriter) Write(p []byte) (int, error) {
	_, _ = s.w.Write(p)
	return len(p), nil
}

// Setup returns a text-format slog.Logger at the given level writing to
// base. When logFile is non-empty the same lines are appended to that file;
// a file that cannot be opened degrades to base-only with a single warning.
func Setup(base io.Writer, level slog.Level, logFile string) *slog.Logger {
	out := base
	var openErr error
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			openErr = err
		} else {
			out = io.MultiWriter(base, swallowWriter{w: f})
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	if openErr != nil {
		logger.Warn("log file unavailable, logging to console only",
			slog.String("path", logFile),
			slog.String("error", openErr.Error()))
	}
	return logger
}
