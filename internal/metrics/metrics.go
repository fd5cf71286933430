// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoice_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	InvoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_invoices_created_total",
		Help: "Invoices created.",
	})

	PDFsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_pdfs_rendered_total",
		Help: "Invoice PDFs rendered.",
	})

	// EmailsSent is labelled with result "ok" or "error".
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_emails_sent_total",
		Help: "Invoice emails by delivery result.",
	}, []string{"result"})

	StatisticsCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_statistics_cache_total",
		Help: "Statistics plot lookups by cache result.",
	}, []string{"result"})
)
