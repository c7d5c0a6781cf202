package logger

import (
	"fmt"
	"time"
)

// Record is a single log event. It is built per call, handed to every sink
// and to the tracking hook, then dropped.
type Record struct {
	Logger  Name
	Level   Level
	Time    time.Time
	File    string // base name of the calling source file
	Line    int
	Message string
	Err     error // set by Exception
}

// Location returns "file:line".
func (r Record) Location() string {
	return fmt.Sprintf("%s:%d", r.File, r.Line)
}

const timestampLayout = "2006-01-02 15:04:05"

// Format renders a record as
//
//	2025-01-02 03:04:05 UTC | ERROR    | x.py:10                                  | boom
//
// with the level padded to 8 and the location padded to 40 characters.
func Format(r Record) string {
	return fmt.Sprintf("%s UTC | %-8s | %-40s | %s",
		r.Time.UTC().Format(timestampLayout), r.Level, r.Location(), r.Message)
}
