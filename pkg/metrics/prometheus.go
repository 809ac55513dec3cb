package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	recordsIngested *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastDemand      *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		recordsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailpulse_records_ingested_total",
				Help: "Total number of sales records ingested per backend",
			},
			[]string{"backend", "location"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastDemand: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "retailpulse_forecast_demand",
				Help: "Latest forecast demand for a product/location pair",
			},
			[]string{"product", "location"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retailpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordIngested counts a sales record routed to a backend.
func (r *Recorder) RecordIngested(backend, location string) {
	r.recordsIngested.WithLabelValues(backend, location).Inc()
}

// RecordError counts an error occurrence by kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordDemand records the most recent forecast demand for a series.
func (r *Recorder) RecordDemand(productID, locationID string, demand float64) {
	r.lastDemand.WithLabelValues(productID, locationID).Set(demand)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
