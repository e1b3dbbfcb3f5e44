package advisor

import "github.com/prometheus/client_golang/prometheus"

// Parse outcomes.
const (
	outcomeTyped       = "typed"
	outcomePassthrough = "passthrough"
	outcomeRaw         = "raw"
	outcomeSplit       = "split"
)

var outputParseTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "propadvisor",
		Subsystem: "advisor",
		Name:      "output_parse_total",
		Help:      "Model outputs by endpoint and parse outcome (typed, passthrough, raw, split)",
	},
	[]string{"endpoint", "outcome"},
)

func init() {
	prometheus.MustRegister(outputParseTotal)
}
