// Package logging builds the diagnostic logger. The TUI owns the terminal,
// so log output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// New creates a logger at the given level writing to w. Unknown levels fall
// back to info.
func New(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})

	if w == nil {
		w = io.Discard
	}
	logger.SetOutput(w)

	return logger
}

// Open creates a logger appending to path. The returned closer releases the
// file.
func Open(level, path string) (*logrus.Logger, io.Closer, error) {
	if path == "" {
		return New(level, nil), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(level, file), file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
