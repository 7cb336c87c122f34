// Package logging provides structured logging with file rotation.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/usestring/harlens/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Level      string    // Log level: debug, info, warn, error
	FilePath   string    // Path to log file (empty = Writer)
	MaxSizeMB  int       // Max size in MB before rotation
	MaxBackups int       // Max number of old log files to retain
	MaxAgeDays int       // Max age in days to retain old log files
	Compress   bool      // Whether to compress rotated files
	Writer     io.Writer // Destination without a file; nil means stderr
}

// DefaultConfig returns sensible defaults for logging.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
}

// FromConfig maps the log section of the settings to a Config.
func FromConfig(c config.LogConfig) Config {
	return Config{
		Level:      c.Level,
		FilePath:   c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// VerbosityLevel maps a repeated -v count to a level name: none keeps the
// warn default, one gives info, two or more give debug.
func VerbosityLevel(count int, fallback string) string {
	switch {
	case count >= 2:
		return "debug"
	case count == 1:
		return "info"
	default:
		return fallback
	}
}

// Setup installs a text slog handler as the default logger. The returned
// function closes the log file, if any.
func Setup(cfg Config) (func() error, error) {
	w, closeFn, err := openWriter(cfg)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	slog.SetDefault(slog.New(handler))
	return closeFn, nil
}

// openWriter returns a rotating file writer when FilePath is set, and
// Writer (or stderr) otherwise.
func openWriter(cfg Config) (io.Writer, func() error, error) {
	if cfg.FilePath == "" {
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		return w, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	return lj, lj.Close, nil
}

// ParseLevel converts a level name to a slog level. Unknown names give warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
