package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// logFile is a JSON log written under the log directory while the TUI
// owns the terminal.
type logFile struct {
	file   *os.File
	logger *slog.Logger
}

// openLogFile creates <dir>/<prefix>_<timestamp>.jsonl and a logger that
// writes to it at the configured level.
func openLogFile(dir, prefix string, level slog.Level) (*logFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.jsonl", prefix, time.Now().Format("20060102_150405"))
	file, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &logFile{
		file:   file,
		logger: slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})),
	}, nil
}

// Path returns the log file path.
func (l *logFile) Path() string {
	return l.file.Name()
}

// Close closes the log file.
func (l *logFile) Close() error {
	return l.file.Close()
}
