package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/killallgit/loom/pkg/config"
	"github.com/lmittmann/tint"
)

var (
	mu       sync.RWMutex
	root     *slog.Logger
	logFile  *os.File
	initOnce sync.Once
)

// Init initializes the package logger from the global config. Safe to call
// more than once; only the first call takes effect.
func Init() error {
	var err error
	initOnce.Do(func() {
		settings := config.Get()
		err = initWith(settings.Logging.Level, settings.Logging.LogFile)
	})
	return err
}

func initWith(level, logPath string) error {
	lvl := parseLevel(level)

	var out io.Writer = os.Stderr
	if logPath != "" {
		dir := filepath.Dir(logPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		out = f
	}

	handler := tint.NewHandler(out, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    logPath != "",
	})

	mu.Lock()
	root = slog.New(handler)
	mu.Unlock()

	slog.SetDefault(root)
	return nil
}

// parseLevel converts a string level to a slog level
func parseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a logger scoped to a named component.
func WithComponent(name string) *slog.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()

	if l == nil {
		l = slog.Default()
	}
	return l.With("component", name)
}

// SetOutput replaces the logger output (useful for testing).
func SetOutput(w io.Writer) {
	handler := tint.NewHandler(w, &tint.Options{Level: slog.LevelDebug, NoColor: true})

	mu.Lock()
	root = slog.New(handler)
	mu.Unlock()
}

// Close closes the log file if one was opened.
func Close() error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
