package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// HTTPRequests counts API requests by route, method and status.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "HTTP requests handled, by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPDuration tracks request latency by route.
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// AuditEntries counts audit log entries written, by action and entity type.
	AuditEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_audit_entries_total",
		Help: "Audit entries written, by action and entity type.",
	}, []string{"action", "entity_type"})

	// ImageUploads counts processed product images by outcome.
	ImageUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_image_uploads_total",
		Help: "Product image uploads, by outcome (stored, rejected, failed).",
	}, []string{"outcome"})

	// ImageCleanupFailures counts best-effort image removals that failed.
	ImageCleanupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_image_cleanup_failures_total",
		Help: "Stored product images that could not be removed.",
	})

	// AuthRejections counts requests refused by the admin gate, by reason.
	AuthRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_auth_rejections_total",
		Help: "Requests refused by the admin gate, by reason.",
	}, []string{"reason"})
)

// Registry holds the catalog collectors plus Go runtime and process collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		HTTPRequests,
		HTTPDuration,
		AuditEntries,
		ImageUploads,
		ImageCleanupFailures,
		AuthRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RegisterDatabase exposes database reachability and SQLite lock contention.
// It must be called once, after the database is open.
func RegisterDatabase(up func() bool, busy, locked func() uint64) {
	Registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "catalog_database_up",
			Help: "1 when the database answers a ping.",
		}, func() float64 {
			if up() {
				return 1
			}
			return 0
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "catalog_sqlite_busy_errors_total",
			Help: "SQLite SQLITE_BUSY errors seen by the store.",
		}, func() float64 { return float64(busy()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "catalog_sqlite_locked_errors_total",
			Help: "SQLite SQLITE_LOCKED errors seen by the store.",
		}, func() float64 { return float64(locked()) }),
	)
}
