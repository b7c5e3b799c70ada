// Package metrics exposes Prometheus collectors for the dashboard proxy.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ga4_dashboard"

var (
	// ReportRequestsTotal counts GA4 Data API exchanges by query and outcome.
	ReportRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ga4",
			Name:      "report_requests_total",
			Help:      "Total number of GA4 Data API requests",
		},
		[]string{"query", "status"},
	)

	// ReportDuration measures GA4 Data API latency.
	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ga4",
			Name:      "report_duration_seconds",
			Help:      "GA4 Data API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"query"},
	)

	// DashboardRequestsTotal counts assembled (or failed) dashboards.
	DashboardRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "requests_total",
			Help:      "Total number of dashboard assemblies",
		},
		[]string{"status"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)
)

// ObserveReport records one GA4 exchange.
func ObserveReport(query string, d time.Duration, err error) {
	ReportDuration.WithLabelValues(query).Observe(d.Seconds())
	ReportRequestsTotal.WithLabelValues(query, status(err)).Inc()
}

// ObserveDashboard records one dashboard assembly.
func ObserveDashboard(err error) {
	DashboardRequestsTotal.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
