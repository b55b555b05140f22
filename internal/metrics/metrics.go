package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog API metrics
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests sent to the show catalog API.",
		},
		[]string{"endpoint", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Latency of show catalog API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// User action metrics
var (
	UserActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_actions_total",
			Help: "Total number of search and episode actions by outcome.",
		},
		[]string{"action", "outcome"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of browser sessions with a live page in this process.",
		},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of front-end HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"code", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		CatalogRequestsTotal,
		CatalogRequestDuration,
		UserActionsTotal,
		ActiveSessions,
		HTTPRequestDuration,
	)
}
