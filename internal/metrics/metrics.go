package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Engagement
	EngagementActionsTotal *prometheus.CounterVec
	RateLimitedTotal       *prometheus.CounterVec
	CommentsCreatedTotal   *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the singleton metrics instance, registering collectors on first use
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
				},
				[]string{"method", "path", "status"},
			),
			EngagementActionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "engagement_actions_total",
					Help: "Total engagement toggles by action and outcome",
				},
				[]string{"action", "outcome"},
			),
			RateLimitedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "engagement_rate_limited_total",
					Help: "Total engagement requests rejected by cooldown",
				},
				[]string{"action"},
			),
			CommentsCreatedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "comments_created_total",
					Help: "Total comments and replies created",
				},
				[]string{"kind"},
			),
		}
	})
	return instance
}

// RecordEngagement records an engagement toggle outcome
func RecordEngagement(action, outcome string) {
	Get().EngagementActionsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordRateLimited records a cooldown rejection
func RecordRateLimited(action string) {
	Get().RateLimitedTotal.WithLabelValues(action).Inc()
}

// RecordCommentCreated records a created comment or reply
func RecordCommentCreated(kind string) {
	Get().CommentsCreatedTotal.WithLabelValues(kind).Inc()
}
