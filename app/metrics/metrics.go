package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zettaboard_upstream_requests_total",
			Help: "Total number of requests sent to the mock API",
		},
		[]string{"resource", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zettaboard_upstream_request_duration_seconds",
			Help:    "Duration of requests sent to the mock API in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zettaboard_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"driver"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zettaboard_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"driver"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zettaboard_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zettaboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zettaboard_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	SignInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zettaboard_sign_ins_total",
			Help: "Number of successful sign-ins since start",
		},
	)
)
