package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tessro/serenade/internal/config"
)

// DefaultPath returns the log file used when log.file is not set.
func DefaultPath() string {
	return filepath.Join(config.Dir(), "serenade.log")
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds a text logger writing to the configured file. The terminal
// belongs to the UI, so nothing is written to stdout or stderr unless
// verbose is set. The returned closer releases the file.
func Setup(cfg config.LogConfig, verbose bool) (*slog.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}

	logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = logFile
	if verbose {
		w = io.MultiWriter(os.Stderr, logFile)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})
	return slog.New(handler), logFile, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
