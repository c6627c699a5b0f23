package db

import (
	"context"
	"sync"
	"time"
)

// DefaultChannelCapacity is the default buffer size for the async write channel.
const DefaultChannelCapacity = 100

// WriteOperation is a queued database write.
type WriteOperation struct {
	// Data holds the write payload
	Data interface{}
	// Timestamp when the operation was queued
	Timestamp time.Time
}

// WriteHandler processes one queued write. Implementations handle their
// own error logging.
type WriteHandler func(op WriteOperation) error

// AsyncWriter queues database writes on a buffered channel and applies
// them from a background goroutine, so document processing never blocks
// on disk. Pending writes are drained on Stop.
type AsyncWriter struct {
	writeChan chan WriteOperation
	handler   WriteHandler
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	started   bool
	mu        sync.Mutex
}

// NewAsyncWriter creates an AsyncWriter with the given channel capacity
// (<=0 uses DefaultChannelCapacity).
func NewAsyncWriter(handler WriteHandler, capacity int) *AsyncWriter {
	if capacity <= 0 {
		capacity = DefaultChannelCapacity
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AsyncWriter{
		writeChan: make(chan WriteOperation, capacity),
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins background processing. Must be called before writes are
// applied.
func (w *AsyncWriter) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}
	w.started = true
	w.wg.Add(1)
	go w.processWrites()
}

func (w *AsyncWriter) processWrites() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			w.drainChannel()
			return
		case op, ok := <-w.writeChan:
			if !ok {
				return
			}
			_ = w.handler(op)
		}
	}
}

func (w *AsyncWriter) drainChannel() {
	for {
		select {
		case op, ok := <-w.writeChan:
			if !ok {
				return
			}
			_ = w.handler(op)
		default:
			return
		}
	}
}

// Write queues a write without blocking. Returns false if the buffer is
// full; callers fall back to a synchronous write in that case.
func (w *AsyncWriter) Write(data interface{}) bool {
	op := WriteOperation{Data: data, Timestamp: time.Now()}
	select {
	case w.writeChan <- op:
		return true
	default:
		return false
	}
}

// Pending returns the number of operations waiting in the buffer.
func (w *AsyncWriter) Pending() int {
	return len(w.writeChan)
}

// Stop signals the background goroutine to stop and waits for pending
// writes to drain.
func (w *AsyncWriter) Stop() {
	w.cancel()
	w.wg.Wait()
}

// IsStarted reports whether the background processor is running.
func (w *AsyncWriter) IsStarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}
