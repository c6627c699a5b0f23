package db

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAsyncWriter_ProcessesQueuedWrites(t *testing.T) {
	var processed int64
	writer := NewAsyncWriter(func(op WriteOperation) error {
		atomic.AddInt64(&processed, 1)
		return nil
	}, 10)
	writer.Start()

	for i := 0; i < 5; i++ {
		if !writer.Write(i) {
			t.Fatalf("write %d rejected", i)
		}
	}
	writer.Stop()

	if got := atomic.LoadInt64(&processed); got != 5 {
		t.Errorf("processed = %d, want 5", got)
	}
}

func TestAsyncWriter_WriteBeforeStartQueues(t *testing.T) {
	writer := NewAsyncWriter(func(op WriteOperation) error { return nil }, 2)

	if !writer.Write("a") || !writer.Write("b") {
		t.Error("writes within capacity should queue")
	}
	if writer.Write("c") {
		t.Error("write beyond capacity should be rejected")
	}
	if writer.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", writer.Pending())
	}
}

func TestAsyncWriter_StartIsIdempotent(t *testing.T) {
	writer := NewAsyncWriter(func(op WriteOperation) error { return nil }, 10)
	writer.Start()
	writer.Start()
	if !writer.IsStarted() {
		t.Error("writer should report started")
	}
	writer.Stop()
}

func TestAsyncWriter_StopDrainsPending(t *testing.T) {
	var mu sync.Mutex
	var seen []interface{}
	block := make(chan struct{})

	writer := NewAsyncWriter(func(op WriteOperation) error {
		<-block
		mu.Lock()
		seen = append(seen, op.Data)
		mu.Unlock()
		return nil
	}, 10)
	writer.Start()

	for i := 0; i < 3; i++ {
		writer.Write(i)
	}
	close(block)

	done := make(chan struct{})
	go func() {
		writer.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not drain within timeout")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("drained %d writes, want 3", len(seen))
	}
}
