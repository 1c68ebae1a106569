// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of inbound requests by route and status class",
		},
		[]string{"route", "status"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_request_duration_seconds",
			Help: "Duration of inbound request handling in seconds",
		},
		[]string{"route"},
	)

	DownstreamCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_downstream_calls_total",
			Help: "Total number of downstream calls by service and outcome",
		},
		[]string{"service", "outcome"},
	)

	DownstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_downstream_call_duration_seconds",
			Help: "Duration of downstream calls in seconds",
		},
		[]string{"service"},
	)

	ComposeCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_compose_cache_events_total",
			Help: "Compose response cache hits and misses",
		},
		[]string{"event"},
	)
)
