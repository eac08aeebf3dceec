package main

import "github.com/prometheus/client_golang/prometheus"

// --- PROMETHEUS METRICS ---
var (
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reverseip_request_duration_seconds",
			Help:    "Time taken to build and render a diagnostic",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"status", "format"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reverseip_requests_total",
			Help: "Total number of diagnostic requests",
		},
		[]string{"status"},
	)

	pointerResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reverseip_reverse_pointer_total",
			Help: "Reverse pointer outcomes by status",
		},
		[]string{"status"},
	)

	activeLimiters = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reverseip_active_rate_limiters",
			Help: "Number of per-client rate limiters currently tracked",
		},
	)
)

func init() {
	prometheus.MustRegister(requestDuration, requestTotal, pointerResults, activeLimiters)
}
