// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultLevel is the level of the default logger. Decorations go to
// stdout, so diagnostics stay quiet unless asked for.
const DefaultLevel = "warn"

//nolint:gochecknoglobals // Package-level logger is intentional for convenience
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

//nolint:gochecknoglobals // Read-only lookup table.
var levels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New(DefaultLevel)
	})
	return defaultLogger
}

// ParseLevel converts a level name to a log level, ignoring case.
// Unknown names report false and info level.
func ParseLevel(level string) (log.Level, bool) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return log.InfoLevel, false
	}
	return lvl, true
}

// New creates a logger writing to stderr with the specified level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w with the specified level.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	lvl, _ := ParseLevel(level)
	logger.SetLevel(lvl)
	return logger
}

// NewInteractive creates an info-level logger for long-running commands,
// with timestamps so events can be correlated with file changes.
func NewInteractive() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(log.InfoLevel)
	return logger
}

// ForDocument returns a child logger tagging every entry with path.
func ForDocument(logger *log.Logger, path string) *log.Logger {
	if path == "" {
		return logger
	}
	return logger.With(FieldPath, path)
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	defaultLogger = logger
}

// SetLevel updates the log level of the default logger. Unknown names
// select info level.
func SetLevel(level string) {
	lvl, _ := ParseLevel(level)
	getDefaultLogger().SetLevel(lvl)
}
