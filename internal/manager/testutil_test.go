package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testCtx returns a context canceled at test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// fakeAdapter is an in-memory InferenceAdapter. Generate returns reply (or
// err) after optionally blocking on gate.
type fakeAdapter struct {
	loadErr  error
	startErr error
	genErr   error
	reply    string
	gate     chan struct{}

	loads  atomic.Int32
	calls  atomic.Int32
	closed atomic.Bool

	mu         sync.Mutex
	lastParams InferParams
	lastMsgs   []Message
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) Load(context.Context) error {
	f.loads.Add(1)
	return f.loadErr
}

func (f *fakeAdapter) Start(p InferParams) (InferSession, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.mu.Lock()
	f.lastParams = p
	f.mu.Unlock()
	return &fakeSession{a: f}, nil
}

func (f *fakeAdapter) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *fakeAdapter) params() InferParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastParams
}

type fakeSession struct{ a *fakeAdapter }

func (s *fakeSession) Generate(ctx context.Context, msgs []Message, onToken func(string) error) (FinalResult, error) {
	s.a.calls.Add(1)
	s.a.mu.Lock()
	s.a.lastMsgs = msgs
	s.a.mu.Unlock()
	if s.a.gate != nil {
		select {
		case <-s.a.gate:
		case <-ctx.Done():
			return FinalResult{}, ctx.Err()
		}
	}
	if s.a.genErr != nil {
		return FinalResult{}, s.a.genErr
	}
	return FinalResult{Content: s.a.reply, FinishReason: "stop"}, nil
}

func (s *fakeSession) Close() error { return nil }

func userMsg(text string) []Message {
	return []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: text}}
}
