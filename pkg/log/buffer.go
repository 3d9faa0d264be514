package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Transporter is an output destination for entries (stdout, files, ...).
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}

// Buffer decouples callers from transporters. Entries are queued on a bounded
// channel and delivered by a single worker; when the queue is full the oldest
// entry is discarded so logging never blocks a request.
type Buffer struct {
	entries      chan Entry
	transporters []Transporter
	fallback     io.Writer

	dropped atomic.Int64
	closed  atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewBuffer starts the delivery worker.
func NewBuffer(capacity int, transporters ...Transporter) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		entries:      make(chan Entry, capacity),
		transporters: transporters,
		fallback:     os.Stderr,
		done:         make(chan struct{}),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// Send enqueues entry. Safe for concurrent use; a no-op after Close.
func (b *Buffer) Send(entry Entry) {
	if b.closed.Load() {
		return
	}
	for attempt := 0; attempt < 2; attempt++ {
		select {
		case b.entries <- entry:
			return
		default:
		}
		select {
		case <-b.entries:
			b.dropped.Add(1)
		default:
		}
	}
	b.dropped.Add(1)
}

// DroppedCount is the number of entries discarded because the queue was full.
func (b *Buffer) DroppedCount() int64 {
	return b.dropped.Load()
}

// Close stops the worker, flushes what is queued and closes transporters.
// Calling it more than once is harmless.
func (b *Buffer) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	close(b.done)
	b.wg.Wait()

	for {
		select {
		case entry := <-b.entries:
			b.deliver(entry)
		default:
			for _, t := range b.transporters {
				_ = t.Close()
			}
			return
		}
	}
}

func (b *Buffer) run() {
	defer b.wg.Done()
	for {
		select {
		case entry := <-b.entries:
			b.deliver(entry)
		case <-b.done:
			return
		}
	}
}

func (b *Buffer) deliver(entry Entry) {
	for _, t := range b.transporters {
		if err := t.Write(entry); err != nil {
			fmt.Fprintf(b.fallback, "log transporter %q failed: %v\n", t.Name(), err)
		}
	}
}
