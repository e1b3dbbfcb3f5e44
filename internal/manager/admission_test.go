package manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestAdmission_TooBusyWhenInflightHeld(t *testing.T) {
	gate := make(chan struct{})
	fa := &fakeAdapter{reply: "x", gate: gate}
	m := NewWithConfig(ManagerConfig{Adapter: fa, MaxQueueDepth: 4, MaxInflight: 1, MaxWait: 50 * time.Millisecond})

	done := make(chan error, 1)
	go func() {
		_, err := m.Chat(context.Background(), ChatRequest{Messages: userMsg("first")})
		done <- err
	}()
	waitFor(t, func() bool { return m.Status().Inflight == 1 })

	_, err := m.Chat(testCtx(t), ChatRequest{Messages: userMsg("second")})
	require.Error(t, err)
	assert.True(t, IsTooBusy(err))

	close(gate)
	require.NoError(t, <-done)
	st := m.Status()
	assert.Equal(t, 0, st.Inflight)
	assert.Equal(t, 0, st.QueueLen)
}

func TestAdmission_QueueFull(t *testing.T) {
	gate := make(chan struct{})
	fa := &fakeAdapter{reply: "x", gate: gate}
	m := NewWithConfig(ManagerConfig{Adapter: fa, MaxQueueDepth: 2, MaxInflight: 1, MaxWait: 2 * time.Second})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := m.Chat(context.Background(), ChatRequest{Messages: userMsg("q")})
			errs <- err
		}()
	}
	waitFor(t, func() bool {
		st := m.Status()
		return st.Inflight == 1 && st.QueueLen == 1
	})

	// Third caller cannot get a queue slot; shorten its wait through the context.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := m.Chat(ctx, ChatRequest{Messages: userMsg("q")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	close(gate)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
}

func TestAdmission_ConcurrentInflight(t *testing.T) {
	gate := make(chan struct{})
	fa := &fakeAdapter{reply: "x", gate: gate}
	m := NewWithConfig(ManagerConfig{Adapter: fa, MaxQueueDepth: 4, MaxInflight: 2, MaxWait: time.Second})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := m.Chat(context.Background(), ChatRequest{Messages: userMsg("p")})
			errs <- err
		}()
	}
	waitFor(t, func() bool { return m.Status().Inflight == 2 })
	close(gate)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.EqualValues(t, 2, fa.calls.Load())
}

func TestAdmission_ReleasesOnCancel(t *testing.T) {
	fa := &fakeAdapter{reply: "x", gate: make(chan struct{})}
	m := NewWithConfig(ManagerConfig{Adapter: fa, MaxWait: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := m.Chat(ctx, ChatRequest{Messages: userMsg("c")})
	require.Error(t, err)
	assert.True(t, IsDeadline(err))

	st := m.Status()
	assert.Equal(t, 0, st.Inflight)
	assert.Equal(t, 0, st.QueueLen)
}
