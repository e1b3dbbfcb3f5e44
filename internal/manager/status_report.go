package manager

import (
	"time"

	"propadvisor/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inflight := len(m.genCh)
	waiting := len(m.queueCh) - inflight
	if waiting < 0 {
		waiting = 0
	}
	now := time.Now()
	return types.StatusResponse{
		Backend:        m.adapter.Name(),
		Model:          m.model,
		State:          string(m.state),
		QueueLen:       waiting,
		Inflight:       inflight,
		MaxQueueDepth:  m.maxQueueDepth,
		MaxInflight:    m.maxInflight,
		CallsTotal:     m.calls.Load(),
		FailuresTotal:  m.failures.Load(),
		CacheEnabled:   m.cache != nil,
		LastError:      m.lastErr,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}
