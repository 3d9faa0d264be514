package log

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type captureTransporter struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (c *captureTransporter) Name() string { return "capture" }

func (c *captureTransporter) Write(entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return c.err
}

func (c *captureTransporter) Close() error { return nil }

func (c *captureTransporter) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// flushed closes the logger so every queued entry has been delivered.
func flushed(l *Logger, c *captureTransporter) []Entry {
	l.Close()
	return c.Entries()
}

func TestLogger_Info_WritesEntryWithFields(t *testing.T) {
	// Arrange
	capture := &captureTransporter{}
	logger := New(Info, capture)

	// Act
	logger.Info("articles fetched", "count", 10, "page", 2)
	entries := flushed(logger, capture)

	// Assert
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Level != Info || e.Message != "articles fetched" {
		t.Errorf("got %s %q", e.Level, e.Message)
	}
	if e.Fields["count"] != 10 || e.Fields["page"] != 2 {
		t.Errorf("fields: got %v", e.Fields)
	}
	if !strings.HasPrefix(e.Caller, "logger_test.go:") {
		t.Errorf("caller: got %q", e.Caller)
	}
}

func TestLogger_BelowLevel_Dropped(t *testing.T) {
	capture := &captureTransporter{}
	logger := New(Warn, capture)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")

	entries := flushed(logger, capture)
	if len(entries) != 1 || entries[0].Message != "warn" {
		t.Errorf("got %v, want only the warn entry", entries)
	}
}

func TestLogger_SetLevel_AppliesToChildren(t *testing.T) {
	capture := &captureTransporter{}
	logger := New(Error, capture)
	child := logger.With("component", "devto")

	logger.SetLevel(Debug)
	child.Debug("visible")

	entries := flushed(logger, capture)
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	if entries[0].Fields["component"] != "devto" {
		t.Errorf("child base field missing: %v", entries[0].Fields)
	}
}

func TestLogger_CtxVariants_AttachRequestIDAndFields(t *testing.T) {
	capture := &captureTransporter{}
	logger := New(Info, capture)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithFields(ctx, "route", "/blog")
	logger.WarnCtx(ctx, "slow upstream", "latency_ms", 900)

	entries := flushed(logger, capture)
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	e := entries[0]
	if e.RequestID != "req-1" {
		t.Errorf("request id: got %q", e.RequestID)
	}
	if e.Fields["route"] != "/blog" || e.Fields["latency_ms"] != 900 {
		t.Errorf("fields: got %v", e.Fields)
	}
}

func TestLogger_CallSiteFieldsOverrideContextFields(t *testing.T) {
	capture := &captureTransporter{}
	logger := New(Info, capture)

	ctx := WithFields(context.Background(), "page", 1)
	logger.InfoCtx(ctx, "reload", "page", 3)

	entries := flushed(logger, capture)
	if entries[0].Fields["page"] != 3 {
		t.Errorf("page: got %v, want 3", entries[0].Fields["page"])
	}
}

func TestGlobal_DefaultWithoutSetDefault_DoesNotPanic(t *testing.T) {
	SetDefault(nil)
	GlobalInfo("dropped")
	GlobalErrorCtx(context.Background(), "dropped", "error", errors.New("boom"))
}

func TestGlobal_SetDefault_RoutesGlobalCalls(t *testing.T) {
	capture := &captureTransporter{}
	logger := New(Debug, capture)
	SetDefault(logger)
	defer SetDefault(nil)

	GlobalDebug("one")
	GlobalInfoCtx(WithRequestID(context.Background(), "abc"), "two")

	entries := flushed(logger, capture)
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[1].RequestID != "abc" {
		t.Errorf("request id: got %q", entries[1].RequestID)
	}
	if !strings.HasPrefix(entries[0].Caller, "logger_test.go:") {
		t.Errorf("global caller should point at the call site, got %q", entries[0].Caller)
	}
}
