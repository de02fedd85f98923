package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route, method and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actinova_admin",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route and method
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "actinova_admin",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// MailDeliveries counts outbound emails by template and delivery status
	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actinova_admin",
		Name:      "mail_deliveries_total",
		Help:      "Outbound emails by template and delivery status.",
	}, []string{"template", "status"})

	// CounterDrift counts best-effort counter updates that failed
	CounterDrift = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actinova_admin",
		Name:      "counter_update_failures_total",
		Help:      "Denormalized counter updates that failed and left the counter stale.",
	}, []string{"counter"})

	// CatalogReconciliations counts reconciler runs by outcome
	CatalogReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actinova_admin",
		Name:      "catalog_reconciliations_total",
		Help:      "Course catalog reconciliation runs by outcome.",
	}, []string{"outcome"})

	// AnalyticsCache counts analytics cache lookups by result
	AnalyticsCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actinova_admin",
		Name:      "analytics_cache_lookups_total",
		Help:      "Analytics report cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)
