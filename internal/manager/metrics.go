package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	llmCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propadvisor",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Backend calls by endpoint and outcome",
		},
		[]string{"backend", "endpoint", "outcome"},
	)

	llmCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propadvisor",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of backend generations in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"backend", "endpoint"},
	)

	llmCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propadvisor",
			Subsystem: "llm",
			Name:      "cache_total",
			Help:      "Response cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	llmQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "propadvisor",
			Subsystem: "llm",
			Name:      "queue_depth",
			Help:      "Calls holding a queue slot, generating or waiting",
		},
	)
)

func init() {
	prometheus.MustRegister(llmCallsTotal, llmCallDuration, llmCacheTotal, llmQueueDepth)
}

// outcomeOf labels an error for llmCallsTotal.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsTooBusy(err):
		return "too_busy"
	case IsDeadline(err):
		return "timeout"
	case IsDependencyUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}
