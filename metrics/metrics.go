// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests.
	// Labels: method, route (chi route pattern), status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// ReconcileOperations counts child rows touched by project reconciliation.
	// Labels:
	//   - collection: "technologies", "gallery_images"
	//   - operation: "delete", "create", "update"
	ReconcileOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_reconcile_operations_total",
			Help: "Total number of child rows deleted, created or updated by reconciliation",
		},
		[]string{"collection", "operation"},
	)

	// LoginAttempts counts login attempts by outcome: "success", "failure", "error".
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_login_attempts_total",
			Help: "Total number of moderator login attempts",
		},
		[]string{"outcome"},
	)

	CVUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cv_uploads_total",
			Help: "Total number of CV uploads by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordReconcile adds the row counts of one reconciliation pass.
func RecordReconcile(collection string, deleted, created, updated int) {
	ReconcileOperations.WithLabelValues(collection, "delete").Add(float64(deleted))
	ReconcileOperations.WithLabelValues(collection, "create").Add(float64(created))
	ReconcileOperations.WithLabelValues(collection, "update").Add(float64(updated))
}

func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

func RecordCVUpload(outcome string) {
	CVUploads.WithLabelValues(outcome).Inc()
}
