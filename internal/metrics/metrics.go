// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AI call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	StorageQuotaFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_storage_quota_fallbacks_total",
			Help: "Writes retried without the binary resume payload after a quota rejection",
		},
		[]string{"record"},
	)

	StorageDroppedWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_storage_dropped_writes_total",
			Help: "Writes dropped after the backend rejected them",
		},
		[]string{"record"},
	)

	AICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_ai_calls_total",
			Help: "AI gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobfit_ai_call_duration_seconds",
			Help:    "Duration of AI gateway calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"operation"},
	)

	OperationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_operations_in_flight_rejections_total",
			Help: "AI operations rejected because the same operation was already running",
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)
)
