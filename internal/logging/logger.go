// Package logging provides category-based file logging for
// debatekeeper.  Logs are written to <dir>/logs/ with one file per
// category.  Logging is gated on debug mode: when disabled, every call
// is a silent no-op, so hot paths (the one-second tick, the parser's
// element loop) can log unconditionally.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and configuration
	CategoryParse   Category = "parse"   // Format document parsing
	CategoryFormat  Category = "format"  // Format compilation
	CategoryTimer   Category = "timer"   // Speech timer ticks and bells
	CategoryFormats Category = "formats" // Format file manager and watcher
	CategoryStore   Category = "store"   // Saved-state store
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	enabled   bool
	logLevel  int
)

// Initialize sets up the logging directory.  With debug false, logging
// stays a no-op.  Should be called once at startup.
func Initialize(dir string, debug bool, level string) error {
	enabled = debug
	logLevel = parseLevel(level)
	if !enabled {
		return nil
	}
	if dir == "" {
		return fmt.Errorf("logging directory required")
	}

	logsDir = filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== debatekeeper logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", level)
	return nil
}

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Get returns the logger for a category, creating it if needed.
func Get(category Category) *Logger {
	loggersMu.RLock()
	l, ok := loggers[category]
	loggersMu.RUnlock()
	if ok {
		return l
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	l = &Logger{category: category}
	if enabled && logsDir != "" {
		path := filepath.Join(logsDir, string(category)+".log")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			l.file = f
			l.logger = log.New(f, "", 0)
		} else {
			fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", path, err)
		}
	}
	loggers[category] = l
	return l
}

func (l *Logger) write(level int, levelName, format string, args ...interface{}) {
	if !enabled || l.logger == nil || level < logLevel {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("%s [%s] %s", ts, levelName, msg)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, "DEBUG", format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, "INFO", format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, "WARN", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, "ERROR", format, args...)
}

// Convenience helpers for the busiest categories.

// Parse logs to the parse category at info level.
func Parse(format string, args ...interface{}) {
	Get(CategoryParse).Info(format, args...)
}

// Timer logs to the timer category at debug level.
func Timer(format string, args ...interface{}) {
	Get(CategoryTimer).Debug(format, args...)
}

// Formats logs to the formats category at info level.
func Formats(format string, args ...interface{}) {
	Get(CategoryFormats).Info(format, args...)
}

// Store logs to the store category at info level.
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// Close closes all open log files and resets the registry.  Called on
// shutdown.
func Close() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
			l.file = nil
			l.logger = nil
		}
	}
	loggers = make(map[Category]*Logger)
}
