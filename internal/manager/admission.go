package manager

import (
	"context"
	"time"
)

// beginGeneration reserves a queue slot and then one of the in-flight slots.
// Returns a release func to be deferred.
func (m *Manager) beginGeneration(ctx context.Context) (func(), error) {
	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()

	select {
	case m.queueCh <- struct{}{}:
		llmQueueDepth.Inc()
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{backend: m.adapter.Name()}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
			llmQueueDepth.Dec()
		}
	}()
	select {
	case m.genCh <- struct{}{}:
		acquired = true
		return func() {
			<-m.genCh
			<-m.queueCh
			llmQueueDepth.Dec()
		}, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{backend: m.adapter.Name()}
	}
}
