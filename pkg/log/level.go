package log

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of an entry.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

var levelNames = map[Level]string{
	Trace: "TRACE",
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	Fatal: "FATAL",
}

// ErrInvalidLevel is returned when a level name is not recognised.
var ErrInvalidLevel = errors.New("invalid log level")

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel accepts level names case-insensitively. Unknown names yield Info
// together with ErrInvalidLevel so callers can keep going with a sane default.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return Info, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Enables reports whether a logger set to l emits entries at target.
func (l Level) Enables(target Level) bool {
	return target >= l
}
