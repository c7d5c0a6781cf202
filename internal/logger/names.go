package logger

import (
	"errors"
	"fmt"
)

// Name identifies one of the background jobs that owns a logger.
type Name string

const (
	SleepAnalyzer   Name = "sleep-analyzer"
	CalibrateSensor Name = "calibrate-sensor"
	FreeSleepStream Name = "free-sleep-stream"
)

// Names lists every known job in lookup order.
var Names = []Name{SleepAnalyzer, CalibrateSensor, FreeSleepStream}

var ErrUnknownName = errors.New("unknown logger name")

// ErrNotFound is matched by NotFoundError.
var ErrNotFound = errors.New("default logger not found")

// NotFoundError is returned when no name is given and no known logger has
// been created yet.
type NotFoundError struct {
	Known []Name
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("default logger not found: none of %v has been created", e.Known)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Valid reports whether n is one of Names.
func (n Name) Valid() bool {
	for _, known := range Names {
		if n == known {
			return true
		}
	}
	return false
}

// ParseName validates a job name given as text.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.Valid() {
		return "", fmt.Errorf("%w: '%s', must be one of %v", ErrUnknownName, s, Names)
	}
	return n, nil
}
