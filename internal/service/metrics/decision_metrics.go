package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	DecisionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retailpulse",
			Subsystem: "decision",
			Name:      "latency_seconds",
			Help:      "Latency of decision endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	DecisionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retailpulse",
			Subsystem: "decision",
			Name:      "errors_total",
			Help:      "Errors by decision endpoint",
		},
		[]string{"endpoint"},
	)

	SafeWindows = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retailpulse",
			Subsystem: "decision",
			Name:      "safe_windows",
			Help:      "Safe days per recommendation horizon",
			Buckets:   []float64{0, 1, 2, 3, 5, 7, 14, 30},
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(DecisionLatency, DecisionErrors, SafeWindows)
	})
}
