package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aiproxy_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// ForwardTotal counts forward attempts by analysis type and outcome kind.
	ForwardTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aiproxy_forward_total",
		Help: "Analysis requests forwarded to the backend, by outcome.",
	}, []string{"type", "outcome"})

	// ForwardDuration tracks backend round-trip latency per analysis type.
	ForwardDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aiproxy_forward_duration_seconds",
		Help:    "Time spent waiting on the backend.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"type"})

	// RequestBytes tracks the distribution of forwarded body sizes.
	RequestBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aiproxy_request_bytes",
		Help:    "Size of analysis request bodies forwarded to the backend.",
		Buckets: prometheus.ExponentialBuckets(64, 4, 8),
	})

	// BackendAvailable is 1 when the last health check reached the backend.
	BackendAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aiproxy_backend_available",
		Help: "Whether the backend answered the last health check (1) or not (0).",
	})

	// ModelCallsTotal counts model completions made by the analysis backend.
	ModelCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aibackend_model_calls_total",
		Help: "Model completions by analysis type and outcome.",
	}, []string{"type", "outcome"})

	// ModelCallDuration tracks model latency per analysis type.
	ModelCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aibackend_model_call_duration_seconds",
		Help:    "Time spent waiting on the model.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"type"})

	// ModelAvailable is 1 when the last health check reached the model server.
	ModelAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aibackend_model_available",
		Help: "Whether the model server answered the last health check (1) or not (0).",
	})
)
