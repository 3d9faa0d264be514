package log

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

// blockingTransporter holds deliveries until release is closed.
type blockingTransporter struct {
	captureTransporter
	release chan struct{}
}

func (b *blockingTransporter) Write(entry Entry) error {
	<-b.release
	return b.captureTransporter.Write(entry)
}

func TestBuffer_Close_FlushesQueuedEntries(t *testing.T) {
	capture := &captureTransporter{}
	b := NewBuffer(10, capture)

	for i := 0; i < 5; i++ {
		b.Send(*NewEntry(Info, "entry"))
	}
	b.Close()

	if got := len(capture.Entries()); got != 5 {
		t.Errorf("delivered: got %d, want 5", got)
	}
}

func TestBuffer_Full_DropsOldestAndCounts(t *testing.T) {
	blocking := &blockingTransporter{release: make(chan struct{})}
	b := NewBuffer(2, blocking)

	// The worker picks up at most one entry and then blocks, so with a
	// queue of two at least one of six sends must be dropped.
	for i := 0; i < 6; i++ {
		b.Send(*NewEntry(Info, "entry"))
	}
	close(blocking.release)
	b.Close()

	if b.DroppedCount() == 0 {
		t.Error("expected dropped entries")
	}
	if got := int64(len(blocking.Entries())) + b.DroppedCount(); got != 6 {
		t.Errorf("delivered+dropped: got %d, want 6", got)
	}
}

func TestBuffer_SendAfterClose_Ignored(t *testing.T) {
	capture := &captureTransporter{}
	b := NewBuffer(1, capture)
	b.Close()
	b.Close()

	b.Send(*NewEntry(Info, "late"))

	if len(capture.Entries()) != 0 {
		t.Error("entry sent after close should be ignored")
	}
}

func TestBuffer_TransporterError_ReportedOnFallback(t *testing.T) {
	var stderr bytes.Buffer
	failing := &captureTransporter{err: errors.New("disk full")}
	b := NewBuffer(1, failing)
	b.fallback = &stderr

	b.Send(*NewEntry(Error, "x"))
	b.Close()

	if !strings.Contains(stderr.String(), "disk full") {
		t.Errorf("fallback output: got %q", stderr.String())
	}
}

func TestBuffer_ConcurrentSend_Safe(t *testing.T) {
	capture := &captureTransporter{}
	b := NewBuffer(1000, capture)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				b.Send(*NewEntry(Info, "concurrent"))
			}
		}()
	}
	wg.Wait()
	b.Close()

	if got := int64(len(capture.Entries())) + b.DroppedCount(); got != 400 {
		t.Errorf("delivered+dropped: got %d, want 400", got)
	}
}
