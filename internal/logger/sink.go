// internal/logger/sink.go

package logger

import (
	"fmt"
	"io"
	"sync"
)

// Sink is an output destination for records.
type Sink interface {
	// Write emits one record if it meets the sink's floor.
	Write(r Record) error

	// Close releases the underlying writer.
	Close() error

	// Name returns the sink name.
	Name() string
}

// ConsoleSink writes formatted records to a stream, stderr by default.
type ConsoleSink struct {
	mu     sync.Mutex
	writer io.Writer
	floor  Level
}

// NewConsoleSink creates a console sink with the given severity floor.
func NewConsoleSink(w io.Writer, floor Level) *ConsoleSink {
	return &ConsoleSink{writer: w, floor: floor}
}

// Write writes the record followed by a newline.
func (s *ConsoleSink) Write(r Record) error {
	if r.Level < s.floor {
		return nil
	}
	line := Format(r) + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.writer, line); err != nil {
		return fmt.Errorf("failed to write console log line: %w", err)
	}
	return nil
}

// Close is a no-op, the stream belongs to the process.
func (s *ConsoleSink) Close() error {
	return nil
}

// Name returns "console".
func (s *ConsoleSink) Name() string {
	return "console"
}

// Ensure ConsoleSink implements the Sink interface.
var _ Sink = (*ConsoleSink)(nil)
