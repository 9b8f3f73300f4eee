package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fleetcare"

var (
	// HTTPRequestsTotal counts served requests by route template, method and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		},
		[]string{"route", "method", "code"},
	)

	// HTTPRequestDuration observes request latency by route template.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// NotificationsTotal counts delivery attempts. outcome: delivered/failed.
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of notification deliveries by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// NotificationsDropped counts notifications rejected because the queue was full or closed.
	NotificationsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Total number of notifications dropped before delivery.",
		},
		[]string{"kind"},
	)

	ContractsRenewed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_renewed_total",
		Help:      "Total number of contract renewals.",
	})

	DuplicatesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bill_duplicates_issued_total",
		Help:      "Total number of duplicate bills issued.",
	})

	// QuotesTotal counts quote transitions. state: submitted/approved/cancelled.
	QuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Total number of quote lifecycle transitions.",
		},
		[]string{"state"},
	)

	// LoginsTotal counts login attempts. outcome: succeeded/failed.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// TelemetryStreams is the number of open live telemetry subscriptions.
	TelemetryStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "telemetry_streams",
		Help:      "Number of active live telemetry streams.",
	})
)

// init registers the collectors with the default registry served on /metrics.
func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		NotificationsTotal,
		NotificationsDropped,
		ContractsRenewed,
		DuplicatesIssued,
		QuotesTotal,
		LoginsTotal,
		TelemetryStreams,
	)
}
