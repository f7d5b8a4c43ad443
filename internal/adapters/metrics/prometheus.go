package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hallgate_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hallgate_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	TokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hallgate_tokens_issued_total",
		Help: "Total access tokens issued",
	})

	TokenFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hallgate_token_failures_total",
		Help: "Total failed token requests",
	}, []string{"reason"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hallgate_webhook_events_total",
		Help: "Total LiveKit webhook events received",
	}, []string{"event"})

	CallSubscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hallgate_call_subscribers_active",
		Help: "Number of connected call-notify WebSocket clients",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hallgate_rate_limited_total",
		Help: "Total requests rejected by the rate limiter",
	})
)
