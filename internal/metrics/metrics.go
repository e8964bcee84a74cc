// Package metrics provides Prometheus instrumentation for the API.
//
// Wire the middleware into the router once and mount Handler on
// GET /metrics, then scrape the endpoint from Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kassa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kassa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// SalesRecorded counts completed sales by payment method.
	SalesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kassa",
			Subsystem: "sales",
			Name:      "recorded_total",
			Help:      "Total number of recorded sales.",
		},
		[]string{"payment_method"},
	)

	// SalesAmount accumulates sale totals in cents by payment method.
	SalesAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kassa",
			Subsystem: "sales",
			Name:      "amount_cents_total",
			Help:      "Accumulated sale totals in cents.",
		},
		[]string{"payment_method"},
	)

	// RefundsRecorded counts processed refunds.
	RefundsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kassa",
			Subsystem: "sales",
			Name:      "refunds_total",
			Help:      "Total number of processed refunds.",
		},
	)

	// CacheHits and CacheMisses track the recent-sales cache.
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kassa",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kassa",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
	)
)

// DefaultRegistry is the Prometheus registry used by the API.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		SalesRecorded,
		SalesAmount,
		RefundsRecorded,
		CacheHits,
		CacheMisses,
	)
}

// Handler returns the handler that exposes the Prometheus metrics page
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
