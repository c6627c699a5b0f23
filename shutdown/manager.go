// Package shutdown coordinates graceful process teardown: signal handling,
// priority-ordered cleanup handlers, and a force-exit path for a repeated
// signal.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"techdoc_pipeline/core"

	"go.uber.org/zap"
)

// Func is a cleanup function executed during shutdown. It receives a
// context bounded by the shutdown timeout.
type Func func(ctx context.Context) error

type handler struct {
	name     string
	priority int
	fn       Func
}

// Manager owns the process lifecycle context. The first SIGINT or SIGTERM
// cancels the context so in-flight work winds down; a second signal exits
// immediately. Cleanup handlers run in priority order, lower first.
type Manager struct {
	logger  *zap.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	started     bool
	done        bool
	handlers    []handler
	signalCount int
	exitCode    int

	sigChan chan os.Signal
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets the total time allowed for cleanup handlers. Default is
// 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

// NewManager creates a Manager ready to coordinate shutdown.
func NewManager(logger *zap.Logger, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:   logger,
		timeout:  30 * time.Second,
		ctx:      ctx,
		cancel:   cancel,
		exitCode: core.ExitCodeSuccess,
		sigChan:  make(chan os.Signal, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Context returns the lifecycle context. It is cancelled when a shutdown
// signal arrives.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Register adds a cleanup handler. Lower priority values execute earlier.
// Registration after Shutdown has run is a no-op.
func (m *Manager) Register(name string, priority int, fn Func) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return
	}
	m.handlers = append(m.handlers, handler{name: name, priority: priority, fn: fn})
}

// Start begins listening for SIGINT and SIGTERM. Safe to call more than
// once; subsequent calls are no-ops.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range m.sigChan {
			if m.recordSignal(sig) == 1 {
				m.logger.Info("Received shutdown signal, winding down",
					zap.String("signal", sig.String()))
				m.cancel()
				continue
			}
			m.logger.Warn("Received second signal, exiting immediately")
			os.Exit(m.ExitCode())
		}
	}()
}

func (m *Manager) recordSignal(sig os.Signal) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signalCount++
	if m.signalCount == 1 {
		if sig == syscall.SIGTERM {
			m.exitCode = core.ExitCodeSIGTERM
		} else {
			m.exitCode = core.ExitCodeSIGINT
		}
	}
	return m.signalCount
}

// ExitCode returns the exit code the process should use: success unless a
// shutdown signal was received.
func (m *Manager) ExitCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

// Interrupted reports whether a shutdown signal has been received.
func (m *Manager) Interrupted() bool {
	return core.IsSignalExit(m.ExitCode())
}

// Shutdown runs all registered handlers in priority order within the
// configured timeout. Every handler runs even if earlier ones fail.
// Idempotent; later calls return nil.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	sorted := make([]handler, len(m.handlers))
	copy(sorted, m.handlers)
	m.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	failed := 0
	for _, h := range sorted {
		if err := h.fn(ctx); err != nil {
			failed++
			m.logger.Error("Cleanup handler failed",
				zap.String("handler", h.name), zap.Error(err))
		}
	}

	signal.Stop(m.sigChan)
	m.cancel()

	if failed > 0 {
		return fmt.Errorf("shutdown had %d handler failures", failed)
	}
	return nil
}
