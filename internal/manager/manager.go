package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Manager owns one backend adapter, loads it on first use and admits calls
// through a bounded queue.
type Manager struct {
	mu      sync.RWMutex
	state   State
	err     string
	lastErr string
	closed  bool

	loadMu   sync.Mutex
	adapter  InferenceAdapter
	model    string
	defaults InferParams

	maxQueueDepth int
	maxInflight   int
	maxWait       time.Duration
	callTimeout   time.Duration
	queueCh       chan struct{}
	genCh         chan struct{}

	cache ResponseCache
	group singleflight.Group
	pub   EventPublisher

	calls     atomic.Uint64
	failures  atomic.Uint64
	startTime time.Time
}

// Ready reports whether the backend is loaded and accepting calls.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady && !m.closed
}

// State returns the backend lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Backend names the configured adapter.
func (m *Manager) Backend() string { return m.adapter.Name() }

// Model names the model sent to the backend.
func (m *Manager) Model() string { return m.model }

// LlamaBuilt reports whether this binary includes the in-process llama backend.
func LlamaBuilt() bool { return llamaBuilt }

// Warmup loads the backend ahead of the first call.
func (m *Manager) Warmup(ctx context.Context) error {
	return m.ensureLoaded(ctx)
}

// ensureLoaded loads the adapter once. A failed load leaves the manager in
// StateError and the next call tries again.
func (m *Manager) ensureLoaded(ctx context.Context) error {
	m.mu.RLock()
	state, closed := m.state, m.closed
	m.mu.RUnlock()
	if closed {
		return ErrDependencyUnavailable("manager closed")
	}
	if state == StateReady {
		return nil
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	m.mu.Lock()
	if m.state == StateReady {
		m.mu.Unlock()
		return nil
	}
	m.state = StateLoading
	m.mu.Unlock()

	m.pub.Publish(Event{Name: "load_start", Backend: m.adapter.Name(), Fields: map[string]any{"model": m.model}})
	start := time.Now()
	err := m.adapter.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateError
		m.err = err.Error()
		m.lastErr = err.Error()
		m.pub.Publish(Event{Name: "load_error", Backend: m.adapter.Name(), Fields: map[string]any{"error": err.Error()}})
		return err
	}
	m.state = StateReady
	m.err = ""
	m.pub.Publish(Event{Name: "load_ready", Backend: m.adapter.Name(), Fields: map[string]any{
		"model":       m.model,
		"duration_ms": time.Since(start).Milliseconds(),
	}})
	return nil
}

// Close releases the adapter and cache. Subsequent calls fail with a
// dependency-unavailable error.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.state = StateClosed
	m.mu.Unlock()

	err := m.adapter.Close()
	if m.cache != nil {
		if cerr := m.cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
