package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "closetguard_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "closetguard_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// Decision metrics
var (
	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "closetguard_moderation_decisions_total",
		Help: "Total number of moderation decisions by status",
	}, []string{"status"})

	ShadowModerationTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "closetguard_moderation_shadow_escalations_total",
		Help: "Total number of minors-safety shadow moderation escalations",
	})

	RepeatOffenderHoldsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "closetguard_moderation_repeat_offender_holds_total",
		Help: "Total number of decisions held for review due to repeat violations",
	})

	AuditWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "closetguard_moderation_audit_write_failures_total",
		Help: "Total number of failed audit record writes",
	})
)

// Classifier metrics
var (
	ClassifierErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "closetguard_classifier_errors_total",
		Help: "Total number of failed image classifier calls",
	})

	ClassifierRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "closetguard_classifier_request_duration_seconds",
		Help:    "Image classifier call duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

// Backlog gauges (updated periodically by the collector)
var (
	ReviewBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "closetguard_moderation_review_backlog",
		Help: "Number of recent decisions pending human review",
	})

	RecentAuditRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "closetguard_moderation_recent_audit_records",
		Help: "Number of audit records in the recent collection window",
	})
)

// NormalizePath reduces high-cardinality path labels by replacing dynamic
// segments with placeholders. This keeps the metric label space bounded.
func NormalizePath(path string) string {
	segments := splitPath(path)
	if len(segments) >= 2 && segments[0] == "api" {
		switch segments[1] {
		case "offenders":
			if len(segments) == 3 {
				return "/api/offenders/:user"
			}
		case "decisions":
			if len(segments) == 3 {
				return "/api/decisions/:id"
			}
		}
	}
	return path
}

func splitPath(path string) []string {
	// Skip leading slash
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	// Split on /
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
