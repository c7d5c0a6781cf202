// internal/logger/file_sink.go

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const megabyte = 1024 * 1024

// FileSinkOptions configures a FileSink.
type FileSinkOptions struct {
	Path       string
	MaxSize    int64 // bytes
	MaxBackups int   // 0 truncates the file when MaxSize would be exceeded
	Compress   bool
}

// FileSink handles logging to a file that is capped in size.
type FileSink struct {
	mu     sync.Mutex
	writer io.WriteCloser // *truncatingFile or *lumberjack.Logger
	path   string
}

// NewFileSink opens the log file in append mode. With no backups the file is
// truncated in place on overflow, otherwise lumberjack rotates it.
func NewFileSink(opts FileSinkOptions) (*FileSink, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("file sink requires a path")
	}
	if opts.MaxSize <= 0 {
		return nil, fmt.Errorf("file sink requires a positive max size, got %d", opts.MaxSize)
	}

	var writer io.WriteCloser
	if opts.MaxBackups > 0 {
		// lumberjack counts in whole megabytes
		maxSizeMB := int((opts.MaxSize + megabyte - 1) / megabyte)
		writer = &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    maxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   opts.Compress,
			LocalTime:  false,
		}
	} else {
		f, err := openTruncatingFile(opts.Path, opts.MaxSize)
		if err != nil {
			return nil, err
		}
		writer = f
	}

	return &FileSink{writer: writer, path: opts.Path}, nil
}

// Write appends the formatted record.
func (s *FileSink) Write(r Record) error {
	line := []byte(Format(r) + "\n")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write log line to %s: %w", s.path, err)
	}
	return nil
}

// Close closes the underlying file writer.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer != nil {
		return s.writer.Close()
	}
	return nil
}

// Name returns the file path.
func (s *FileSink) Name() string {
	return s.path
}

// Ensure FileSink implements the Sink interface.
var _ Sink = (*FileSink)(nil)

// truncatingFile empties itself instead of rotating when a write would
// reach max bytes.
type truncatingFile struct {
	f    *os.File
	size int64
	max  int64
}

func openTruncatingFile(path string, max int64) (*truncatingFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file %s: %w", path, err)
	}
	return &truncatingFile{f: f, size: info.Size(), max: max}, nil
}

func (t *truncatingFile) Write(p []byte) (int, error) {
	if t.size+int64(len(p)) >= t.max {
		if err := t.f.Truncate(0); err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
		t.size = 0
	}
	n, err := t.f.Write(p)
	t.size += int64(n)
	return n, err
}

func (t *truncatingFile) Close() error {
	return t.f.Close()
}
