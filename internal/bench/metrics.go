package bench

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"llmbench/internal/common/fsutil"
)

var (
	tokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llmbench",
			Subsystem: "bench",
			Name:      "tokens_total",
			Help:      "Total number of tokens reported by completed runs",
		},
	)

	tokensPerSecond = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "llmbench",
			Subsystem: "bench",
			Name:      "tokens_per_second",
			Help:      "Generation rate of the most recent rated run",
		},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmbench",
			Subsystem: "bench",
			Name:      "runs_total",
			Help:      "Benchmark runs by outcome",
		},
		[]string{"outcome"},
	)
)

// registry holds the benchmark metrics apart from process-level collectors.
var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(tokensTotal, tokensPerSecond, runsTotal)
}

// Gatherer exposes the benchmark metrics, e.g. for a promhttp handler.
func Gatherer() prometheus.Gatherer { return registry }

// WriteMetrics writes the benchmark metrics to path in the Prometheus text
// format, suitable for the node_exporter textfile collector. The file is
// replaced atomically.
func WriteMetrics(path string) error {
	p, err := fsutil.PrepareFile(path)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(p, registry)
}

// Outcome classifies a run for metrics and history.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsStatusError(err):
		return "http_error"
	case IsConnectionError(err):
		return "connection_error"
	case errors.Is(err, ErrIncompleteStream):
		return "incomplete"
	default:
		return "error"
	}
}

// Observe records a finished run in the package metrics.
func Observe(res Result, err error) {
	runsTotal.WithLabelValues(Outcome(err)).Inc()
	if !res.Completed {
		return
	}
	tokensTotal.Add(float64(res.Summary.EvalCount))
	if tps, ok := res.TokensPerSecond(); ok {
		tokensPerSecond.Set(tps)
	}
}
