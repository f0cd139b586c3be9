// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "fintrack/internal/errors"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fintrack_http_request_duration_milliseconds",
			Help:    "HTTP request duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"method", "route"},
	)
	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fintrack_rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
	ledgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_ledger_operations_total",
			Help: "Total number of engine operations by entity, operation and outcome",
		},
		[]string{"entity", "operation", "outcome"},
	)
	dashboardDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fintrack_dashboard_duration_milliseconds",
			Help:    "Dashboard summary computation time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	dashboardSharedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fintrack_dashboard_shared_results_total",
			Help: "Dashboard requests answered by a computation already in flight",
		},
	)
	defaultCategoriesSeeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fintrack_default_categories_seeded_total",
			Help: "Default categories inserted by seeding",
		},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(float64(elapsed.Milliseconds()))
}

// RateLimited counts a request rejected by the rate limiter.
func RateLimited() {
	rateLimitedTotal.Inc()
}

// RecordOperation counts an engine operation. The outcome label is "success"
// or the kind of the returned error.
func RecordOperation(entity, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = apperrors.KindOf(err).String()
	}
	ledgerOperationsTotal.WithLabelValues(entity, operation, outcome).Inc()
}

// ObserveDashboard records how long one dashboard computation took.
func ObserveDashboard(elapsed time.Duration) {
	dashboardDuration.Observe(float64(elapsed.Milliseconds()))
}

// DashboardShared counts a dashboard request served by another caller's computation.
func DashboardShared() {
	dashboardSharedTotal.Inc()
}

// DefaultCategoriesSeeded adds n to the seeded-defaults counter.
func DefaultCategoriesSeeded(n int) {
	defaultCategoriesSeeded.Add(float64(n))
}
