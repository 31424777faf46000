// Package metrics exposes Prometheus instrumentation for the HTTP API
// and the background pipelines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts API requests by method, route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardtrack_http_requests_total",
		Help: "HTTP requests served, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cardtrack_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// SMSIngests counts SMS classification attempts by outcome
	// (committed, no_match, rejected, failed, busy).
	SMSIngests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardtrack_sms_ingests_total",
		Help: "SMS ingestion attempts, by outcome.",
	}, []string{"outcome"})

	// AlertsSent counts spending alerts by threshold.
	AlertsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardtrack_alerts_sent_total",
		Help: "Spending threshold alerts sent, by threshold percentage.",
	}, []string{"threshold"})

	// LedgerExports counts rows appended to the external ledger.
	LedgerExports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cardtrack_ledger_exports_total",
		Help: "Transaction rows appended to the external ledger.",
	})

	// LedgerExportErrors counts failed ledger appends.
	LedgerExportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cardtrack_ledger_export_errors_total",
		Help: "Failed attempts to append rows to the external ledger.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
