// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total number of match requests processed",
		},
		[]string{"category", "result"},
	)

	ProvidersMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_providers_matched",
			Help:    "Shortlist size per match request",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
	)

	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications sent successfully",
		},
	)

	NotificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notification sends that failed",
		},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "dispatch_duration_seconds",
			Help: "Duration of one dispatch batch in seconds",
		},
	)

	ProvidersImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "providers_imported_total",
			Help: "Total number of providers ingested through import",
		},
	)
)
