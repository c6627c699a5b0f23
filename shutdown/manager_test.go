package shutdown

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestManager_Shutdown_RunsHandlersInPriorityOrder(t *testing.T) {
	m := NewManager(zap.NewNop())

	var order []string
	m.Register("database", 30, func(ctx context.Context) error {
		order = append(order, "database")
		return nil
	})
	m.Register("logger", 0, func(ctx context.Context) error {
		order = append(order, "logger")
		return nil
	})
	m.Register("writer", 20, func(ctx context.Context) error {
		order = append(order, "writer")
		return nil
	})

	if err := m.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	want := []string{"logger", "writer", "database"}
	if len(order) != len(want) {
		t.Fatalf("ran %d handlers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestManager_Shutdown_ContinuesPastFailures(t *testing.T) {
	m := NewManager(zap.NewNop())

	var ran int32
	m.Register("failing", 0, func(ctx context.Context) error {
		return errors.New("boom")
	})
	m.Register("after", 10, func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	if err := m.Shutdown(); err == nil {
		t.Error("expected error from failing handler")
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Error("later handler did not run after failure")
	}
}

func TestManager_Shutdown_Idempotent(t *testing.T) {
	m := NewManager(zap.NewNop())

	var calls int32
	m.Register("once", 0, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	if err := m.Shutdown(); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}
	if err := m.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestManager_RegisterAfterShutdownIgnored(t *testing.T) {
	m := NewManager(zap.NewNop())
	if err := m.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	var ran int32
	m.Register("late", 0, func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	m.Shutdown()
	if atomic.LoadInt32(&ran) != 0 {
		t.Error("handler registered after shutdown was executed")
	}
}

func TestManager_DefaultExitCode(t *testing.T) {
	m := NewManager(zap.NewNop())
	if code := m.ExitCode(); code != 0 {
		t.Errorf("ExitCode() = %d, want 0", code)
	}
	if m.Interrupted() {
		t.Error("Interrupted() true without a signal")
	}
}

func TestManager_WithTimeout(t *testing.T) {
	m := NewManager(zap.NewNop(), WithTimeout(5*time.Second))
	if m.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", m.timeout)
	}
}

func TestManager_ShutdownCancelsContext(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.Shutdown()
	select {
	case <-m.Context().Done():
	case <-time.After(time.Second):
		t.Error("context not cancelled after shutdown")
	}
}
