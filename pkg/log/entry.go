package log

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entry is a single structured log record.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Caller    string
	RequestID string
	Message   string
	Fields    map[string]any
}

// NewEntry stamps a new entry with the current time.
func NewEntry(level Level, msg string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]any),
	}
}

// With sets alternating key/value pairs. Non-string keys and a trailing key
// without a value are skipped.
func (e *Entry) With(keysAndValues ...any) *Entry {
	mergePairs(e.Fields, keysAndValues)
	return e
}

// MarshalJSON flattens Fields into the top-level object. Values implementing
// error or fmt.Stringer are written as their string form, since encoding/json
// would otherwise render most errors as {}.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		m[k] = printable(v)
	}

	m["timestamp"] = e.Timestamp.UTC().Format(time.RFC3339)
	m["level"] = e.Level.String()
	m["msg"] = e.Message
	if e.Caller != "" {
		m["caller"] = e.Caller
	}
	if e.RequestID != "" {
		m["request_id"] = e.RequestID
	}

	return json.Marshal(m)
}

func printable(v any) any {
	switch t := v.(type) {
	case error:
		if t == nil {
			return nil
		}
		return t.Error()
	case fmt.Stringer:
		return t.String()
	default:
		return v
	}
}

func mergePairs(dst map[string]any, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		dst[key] = keysAndValues[i+1]
	}
}
