package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RemoteCallMetrics records latency and outcomes for catalog service calls.
type RemoteCallMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewRemoteCallMetrics registers the remote call metrics on the provided registerer.
func NewRemoteCallMetrics(reg prometheus.Registerer) *RemoteCallMetrics {
	if reg == nil {
		return &RemoteCallMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_call_duration_seconds",
		Help:    "Duration of catalog service calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_call_success",
		Help: "Successful catalog service calls.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_call_failure",
		Help: "Failed catalog service calls.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &RemoteCallMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// Observe records the outcome and duration for the named operation.
func (m *RemoteCallMetrics) Observe(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if m.duration != nil {
		m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
	}
	if err != nil {
		if m.failure != nil {
			m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
		}
		return
	}
	if m.success != nil {
		m.success.WithLabelValues(normalizeLabel(operation)).Inc()
	}
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
