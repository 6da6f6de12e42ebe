// Package metrics counts installer operations for hosts that export them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives one observation per routed installer operation.
type Recorder interface {
	Observe(operation, strategy string, duration time.Duration, err error)
}

// Nop discards every observation.
type Nop struct{}

// Observe implements Recorder.
func (Nop) Observe(string, string, time.Duration, error) {}

// Prometheus records operations as prometheus collectors.
type Prometheus struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them on reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharedpkg_operations_total",
				Help: "Number of installer operations by operation and strategy.",
			},
			[]string{"operation", "strategy"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharedpkg_operation_errors_total",
				Help: "Number of failed installer operations by operation and strategy.",
			},
			[]string{"operation", "strategy"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sharedpkg_operation_duration_seconds",
				Help:    "Time taken by installer operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{p.operations, p.errors, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Observe implements Recorder.
func (p *Prometheus) Observe(operation, strategy string, duration time.Duration, err error) {
	p.operations.WithLabelValues(operation, strategy).Inc()
	if err != nil {
		p.errors.WithLabelValues(operation, strategy).Inc()
	}
	p.duration.WithLabelValues(operation).Observe(duration.Seconds())
}
