// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger for CLI (stderr) or TUI (debug log file) use.

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init configures the default slog logger writing to w.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(w io.Writer, level, format string) {
	slog.SetDefault(New(w, level, format))
}

// New builds a logger without installing it as the default.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// InitFile points the default logger at <dir>/debug.log so log lines do not
// interfere with the terminal while the TUI owns it. An empty dir discards
// all output.
func InitFile(dir, level, format string) error {
	mu.Lock()
	defer mu.Unlock()

	if dir == "" {
		slog.SetDefault(New(io.Discard, level, format))
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		slog.SetDefault(New(io.Discard, level, format))
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		slog.SetDefault(New(io.Discard, level, format))
		return fmt.Errorf("open debug log: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	slog.SetDefault(New(f, level, format))
	return nil
}

// Close releases the debug log file opened by InitFile, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
