package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/orgoj/joblog/internal/platform"
)

// Hook receives every record a job logger emits, after the sinks.
type Hook interface {
	Fire(r Record)
	Flush(timeout time.Duration) bool
}

// JobLogger is the logger handed out for one job name. Its metadata is fixed
// at first access.
type JobLogger struct {
	name       Name
	date       string
	startTime  time.Time
	folderPath string
	env        platform.Env
	level      atomic.Int32
	sinks      []Sink
	hook       Hook
	now        func() time.Time
	appLogger  *AppLogger
}

// Name returns the job name.
func (l *JobLogger) Name() Name { return l.name }

// Date returns the creation date as YYYY-MM-DD.
func (l *JobLogger) Date() string { return l.date }

// StartTime returns when the logger was first initialized.
func (l *JobLogger) StartTime() time.Time { return l.startTime }

// FolderPath returns the data folder the log directory lives under.
func (l *JobLogger) FolderPath() string { return l.folderPath }

// Env returns the environment the logger was set up for.
func (l *JobLogger) Env() platform.Env { return l.env }

// Sinks returns the attached sinks.
func (l *JobLogger) Sinks() []Sink { return l.sinks }

// Elapsed returns the wall-clock time since first initialization.
func (l *JobLogger) Elapsed() time.Duration {
	return l.now().Sub(l.startTime)
}

// Level returns the logger's severity floor.
func (l *JobLogger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the logger's severity floor.
func (l *JobLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Debug logs a message at DEBUG level
func (l *JobLogger) Debug(format string, args ...interface{}) {
	l.output(DEBUG, fmt.Sprintf(format, args...), nil)
}

// Info logs a message at INFO level
func (l *JobLogger) Info(format string, args ...interface{}) {
	l.output(INFO, fmt.Sprintf(format, args...), nil)
}

// Warning logs a message at WARNING level
func (l *JobLogger) Warning(format string, args ...interface{}) {
	l.output(WARNING, fmt.Sprintf(format, args...), nil)
}

// Error logs a message at ERROR level
func (l *JobLogger) Error(format string, args ...interface{}) {
	l.output(ERROR, fmt.Sprintf(format, args...), nil)
}

// Critical logs a message at CRITICAL level
func (l *JobLogger) Critical(format string, args ...interface{}) {
	l.output(CRITICAL, fmt.Sprintf(format, args...), nil)
}

// Exception logs a message at ERROR level with err appended. The error is
// also passed to the tracking hook.
func (l *JobLogger) Exception(err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	l.output(ERROR, msg, err)
}

// Log logs msg verbatim at the given level.
func (l *JobLogger) Log(level Level, msg string) {
	l.output(level, msg, nil)
}

// output must be called directly by the exported logging methods, the
// caller lookup depends on it.
func (l *JobLogger) output(level Level, msg string, err error) {
	if level < l.Level() {
		return
	}

	r := Record{
		Logger:  l.name,
		Level:   level,
		Time:    l.now().UTC(),
		File:    "???",
		Message: msg,
		Err:     err,
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		r.File = filepath.Base(file)
		r.Line = line
	}

	for _, s := range l.sinks {
		if werr := s.Write(r); werr != nil {
			l.appLogger.Error("Logging error in sink '%s' of '%s': %v", s.Name(), l.name, werr)
		}
	}
	if l.hook != nil {
		l.hook.Fire(r)
	}
}

func (l *JobLogger) close() error {
	var firstErr error
	for _, s := range l.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close sink '%s': %w", s.Name(), err)
		}
	}
	return firstErr
}
