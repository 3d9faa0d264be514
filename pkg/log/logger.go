// Package log is a small structured logger: JSON entries, async delivery to
// pluggable transporters, and request-scoped fields carried in context.
package log

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 1000

// Logger emits entries at or above its level. Children created with With
// share the parent's buffer.
type Logger struct {
	level      *atomic.Int32
	buffer     *Buffer
	baseFields map[string]any
}

// New creates a logger delivering to the given transporters.
func New(level Level, transporters ...Transporter) *Logger {
	lv := new(atomic.Int32)
	lv.Store(int32(level))
	return &Logger{
		level:      lv,
		buffer:     NewBuffer(defaultBufferSize, transporters...),
		baseFields: map[string]any{},
	}
}

// SetLevel changes the minimum level for this logger and all its children.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// With returns a child logger that always adds the given pairs.
func (l *Logger) With(keysAndValues ...any) *Logger {
	fields := make(map[string]any, len(l.baseFields)+len(keysAndValues)/2)
	for k, v := range l.baseFields {
		fields[k] = v
	}
	mergePairs(fields, keysAndValues)
	return &Logger{level: l.level, buffer: l.buffer, baseFields: fields}
}

// Close flushes pending entries.
func (l *Logger) Close() {
	l.buffer.Close()
}

func (l *Logger) emit(ctx context.Context, level Level, msg string, keysAndValues []any) {
	if !l.Level().Enables(level) {
		return
	}

	entry := NewEntry(level, msg)
	entry.Caller = caller(3)
	for k, v := range l.baseFields {
		entry.Fields[k] = v
	}
	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			entry.Fields[k] = v
		}
	}
	mergePairs(entry.Fields, keysAndValues)

	l.buffer.Send(*entry)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

func (l *Logger) Debug(msg string, kv ...any) { l.emit(nil, Debug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.emit(nil, Info, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.emit(nil, Warn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.emit(nil, Error, msg, kv) }

// Fatal logs at Fatal level. Exiting is left to the caller.
func (l *Logger) Fatal(msg string, kv ...any) { l.emit(nil, Fatal, msg, kv) }

func (l *Logger) DebugCtx(ctx context.Context, msg string, kv ...any) { l.emit(ctx, Debug, msg, kv) }
func (l *Logger) InfoCtx(ctx context.Context, msg string, kv ...any)  { l.emit(ctx, Info, msg, kv) }
func (l *Logger) WarnCtx(ctx context.Context, msg string, kv ...any)  { l.emit(ctx, Warn, msg, kv) }
func (l *Logger) ErrorCtx(ctx context.Context, msg string, kv ...any) { l.emit(ctx, Error, msg, kv) }

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
	discard      = newDiscard()
)

func newDiscard() *Logger {
	return New(Fatal+1, noopTransporter{})
}

type noopTransporter struct{}

func (noopTransporter) Name() string      { return "noop" }
func (noopTransporter) Write(Entry) error { return nil }
func (noopTransporter) Close() error      { return nil }

// SetDefault installs the process-wide logger used by the Global helpers.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the process-wide logger, or a logger that drops
// everything if none was installed.
func Default() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return discard
	}
	return globalLogger
}

// The Global helpers keep call sites short in packages that do not hold a
// *Logger of their own.

func GlobalDebug(msg string, kv ...any) { Default().emit(nil, Debug, msg, kv) }
func GlobalInfo(msg string, kv ...any)  { Default().emit(nil, Info, msg, kv) }
func GlobalWarn(msg string, kv ...any)  { Default().emit(nil, Warn, msg, kv) }
func GlobalError(msg string, kv ...any) { Default().emit(nil, Error, msg, kv) }

func GlobalDebugCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Debug, msg, kv)
}

func GlobalInfoCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Info, msg, kv)
}

func GlobalWarnCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Warn, msg, kv)
}

func GlobalErrorCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Error, msg, kv)
}
