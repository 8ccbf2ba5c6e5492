package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ambudispatch_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// RequestTransitions counts ambulance request lifecycle transitions by outcome.
	RequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ambudispatch_request_transitions_total",
			Help: "Total number of ambulance request state transitions",
		},
		[]string{"transition", "result"},
	)

	// NotificationsCreated counts notification rows produced as transition side effects.
	NotificationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ambudispatch_notifications_created_total",
			Help: "Total number of notifications created",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ambudispatch_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
