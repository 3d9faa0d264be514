package transporters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"bytethoughts/pkg/log"
)

// Text writes human-readable lines for local development:
//
//	15:04:05 INFO  request completed method=GET path=/blog status=200
type Text struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewText writes to os.Stderr.
func NewText() *Text {
	return &Text{writer: os.Stderr}
}

// NewTextWithWriter writes to w.
func NewTextWithWriter(w io.Writer) *Text {
	return &Text{writer: w}
}

func (t *Text) Name() string { return "text" }

func (t *Text) Write(entry log.Entry) error {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Local().Format(time.TimeOnly))
	fmt.Fprintf(&b, " %-5s %s", entry.Level, entry.Message)
	if entry.RequestID != "" {
		fmt.Fprintf(&b, " request_id=%s", entry.RequestID)
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	b.WriteByte('\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.writer, b.String())
	return err
}

func (t *Text) Close() error { return nil }
