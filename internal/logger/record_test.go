package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "error record",
			record: Record{Level: ERROR, Time: ts, File: "x.py", Line: 10, Message: "boom"},
			want:   "2025-03-14 09:26:53 UTC | ERROR    | x.py:10" + strings.Repeat(" ", 33) + " | boom",
		},
		{
			name:   "critical fills the level column",
			record: Record{Level: CRITICAL, Time: ts, File: "main.go", Line: 7, Message: "down"},
			want:   "2025-03-14 09:26:53 UTC | CRITICAL | main.go:7" + strings.Repeat(" ", 31) + " | down",
		},
		{
			name:   "long location is not cut",
			record: Record{Level: DEBUG, Time: ts, File: strings.Repeat("a", 45) + ".go", Line: 1, Message: "m"},
			want:   "2025-03-14 09:26:53 UTC | DEBUG    | " + strings.Repeat("a", 45) + ".go:1 | m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.record))
		})
	}
}

func TestFormat_ConvertsToUTC(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	r := Record{Level: INFO, Time: time.Date(2025, 1, 1, 1, 30, 0, 0, cet), File: "a.go", Line: 1, Message: "hi"}
	assert.True(t, strings.HasPrefix(Format(r), "2025-01-01 00:30:00 UTC | INFO     | "))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "WARNING", WARNING.String())
	assert.Equal(t, "Level 15", Level(15).String())

	lvl, err := ParseLevel("warn")
	assert.NoError(t, err)
	assert.Equal(t, WARNING, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)

	assert.Equal(t, INFO, LevelFromEnv("INFO"))
	assert.Equal(t, DEBUG, LevelFromEnv("info"))
	assert.Equal(t, DEBUG, LevelFromEnv(""))
	assert.Equal(t, DEBUG, LevelFromEnv("ERROR"))
}

func TestParseName(t *testing.T) {
	for _, n := range Names {
		got, err := ParseName(string(n))
		assert.NoError(t, err)
		assert.Equal(t, n, got)
	}

	_, err := ParseName("web-server")
	assert.ErrorIs(t, err, ErrUnknownName)
}
