package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// outcome: created, exists, not_found, found, error
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasklist_operations_total",
			Help: "Total number of task list operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementOperation counts a service operation outcome.
func IncrementOperation(operation, outcome string) {
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
}
