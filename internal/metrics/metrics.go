package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the relay engine.
// promauto registers each metric with the default registry on creation.

var (
	// ==================== HTTP METRICS ====================

	// HTTPRequestDuration tracks request latency; the histogram lets us
	// derive P50/P95/P99 per endpoint.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsTotal counts total HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// ==================== CACHE METRICS ====================

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of link cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of link cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05},
		},
		[]string{"operation"},
	)

	// ==================== RATE LIMITING METRICS ====================

	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of rate-limited requests",
		},
	)

	RateLimitAllowedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_allowed_requests_total",
			Help: "Total number of requests allowed by rate limiter",
		},
	)

	// ==================== BUSINESS METRICS ====================

	// LinksCreatedTotal counts trackable links created.
	LinksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "links_created_total",
			Help: "Total number of trackable links created",
		},
	)

	// EventsRecordedTotal counts funnel events appended, by status.
	EventsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_events_recorded_total",
			Help: "Total number of funnel events recorded",
		},
		[]string{"status"},
	)

	// ChatMessagesTotal counts chat messages posted, by sender role.
	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of chat messages posted",
		},
		[]string{"role"},
	)

	// DispatchesTotal counts notification dispatches by outcome
	// (ok, rejected, transport).
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatches_total",
			Help: "Total number of notification dispatches by outcome",
		},
		[]string{"outcome"},
	)

	// DispatchDuration tracks the end-to-end latency of one dispatch,
	// dominated by the two outbound provider calls.
	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_dispatch_duration_seconds",
			Help:    "Duration of notification dispatches in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordLinkCreated increments the link creation counter.
func RecordLinkCreated() {
	LinksCreatedTotal.Inc()
}

// RecordEvent increments the funnel event counter for a status.
func RecordEvent(status string) {
	EventsRecordedTotal.WithLabelValues(status).Inc()
}

// RecordChatMessage increments the chat message counter for a role.
func RecordChatMessage(role string) {
	ChatMessagesTotal.WithLabelValues(role).Inc()
}

// RecordDispatch increments the dispatch counter for an outcome.
func RecordDispatch(outcome string) {
	DispatchesTotal.WithLabelValues(outcome).Inc()
}

// RecordRateLimited increments the rate-limited requests counter.
func RecordRateLimited() {
	RateLimitedRequestsTotal.Inc()
}

// RecordRateLimitAllowed increments the allowed requests counter.
func RecordRateLimitAllowed() {
	RateLimitAllowedRequestsTotal.Inc()
}
