// internal/logger/app_logger.go

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AppLogger reports on the logging machinery itself (setup progress,
// tracking failures) on stdout. Job records never go through it.
type AppLogger struct {
	mu     sync.Mutex
	writer io.Writer
	level  Level
}

// Global instance
var (
	defaultAppLogger *AppLogger
	once             sync.Once
)

// GetAppLogger returns the singleton instance of the application logger
func GetAppLogger() *AppLogger {
	once.Do(func() {
		defaultAppLogger = NewAppLogger(os.Stdout, DEBUG)
	})
	return defaultAppLogger
}

// NewAppLogger creates an application logger writing to w.
func NewAppLogger(w io.Writer, level Level) *AppLogger {
	return &AppLogger{writer: w, level: level}
}

// SetLogLevel sets the minimum log level
func (l *AppLogger) SetLogLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetLogLevelFromString sets the log level from a string name
func (l *AppLogger) SetLogLevelFromString(levelName string) error {
	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	l.SetLogLevel(level)
	return nil
}

// logf formats and logs a message if the level is sufficient
// Lock is only held during checks and write, not during formatting
func (l *AppLogger) logf(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	skip := level < l.level
	l.mu.Unlock()
	if skip {
		return
	}

	now := time.Now().Format("2006-01-02T15:04:05Z07:00")
	logLine := fmt.Sprintf("[%s] %s: %s\n", now, level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	_, _ = fmt.Fprint(l.writer, logLine)
	l.mu.Unlock()
}

// Debug logs a message at DEBUG level
func (l *AppLogger) Debug(format string, args ...interface{}) {
	l.logf(DEBUG, format, args...)
}

// Info logs a message at INFO level
func (l *AppLogger) Info(format string, args ...interface{}) {
	l.logf(INFO, format, args...)
}

// Warn logs a message at WARNING level
func (l *AppLogger) Warn(format string, args ...interface{}) {
	l.logf(WARNING, format, args...)
}

// Error logs a message at ERROR level
func (l *AppLogger) Error(format string, args ...interface{}) {
	l.logf(ERROR, format, args...)
}
