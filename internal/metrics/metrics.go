package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vault_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// Moderation metrics
var (
	ModerationDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_moderation_decisions_total",
		Help: "Total number of moderation verdicts by deciding stage and outcome",
	}, []string{"stage", "outcome"})

	ModerationFlagsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_moderation_flags_total",
		Help: "Total number of flagged attributes on rejected submissions",
	}, []string{"attribute"})
)

// Perspective API metrics
var (
	PerspectiveRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vault_perspective_request_duration_seconds",
		Help:    "Perspective API request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	PerspectiveFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_perspective_failures_total",
		Help: "Total number of Perspective API calls that fell back to the pre-filter",
	}, []string{"reason"})
)

// Vault metrics
var (
	MessagesLeftTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_messages_left_total",
		Help: "Total number of approved messages stored",
	})

	MessagesTakenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_messages_taken_total",
		Help: "Total number of messages handed out",
	})

	CandlesExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_candles_expired_total",
		Help: "Total number of support candles marked expired",
	})
)

// RecordModeration counts one verdict and, for rejections, each flag.
func RecordModeration(stage string, approved bool, flags []string) {
	outcome := "approved"
	if !approved {
		outcome = "rejected"
	}
	ModerationDecisionsTotal.WithLabelValues(stage, outcome).Inc()
	for _, f := range flags {
		ModerationFlagsTotal.WithLabelValues(f).Inc()
	}
}
