// Package metrics provides Prometheus metrics collection for the price service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// SearchesTotal tracks total product searches by status.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_searches_total",
			Help: "Total number of product price searches",
		},
		[]string{"status"},
	)

	// SearchDuration tracks product search duration.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_search_duration_seconds",
			Help:    "Product price search duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
	)

	// CartComparisonsTotal tracks total cheapest-cart comparisons by status.
	CartComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_comparisons_total",
			Help: "Total number of cheapest-cart comparisons",
		},
		[]string{"status"},
	)

	// CartComparisonDuration tracks cheapest-cart comparison duration.
	CartComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cart_comparison_duration_seconds",
			Help:    "Cheapest-cart comparison duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
	)

	// CartBranchesCompared tracks how many branches each comparison evaluated.
	CartBranchesCompared = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cart_branches_compared",
			Help:    "Number of branches evaluated per cart comparison",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// BranchResolutionsTotal tracks per-branch cart resolutions by result.
	BranchResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branch_resolutions_total",
			Help: "Total number of per-branch cart resolutions",
		},
		[]string{"result"},
	)

	// CacheOperationsTotal tracks branch cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordSearch records metrics for a product price search.
func RecordSearch(duration time.Duration, status string) {
	SearchDuration.Observe(duration.Seconds())
	SearchesTotal.WithLabelValues(status).Inc()
}

// RecordCartComparison records metrics for a cheapest-cart comparison.
func RecordCartComparison(duration time.Duration, status string, branches int) {
	CartComparisonDuration.Observe(duration.Seconds())
	CartComparisonsTotal.WithLabelValues(status).Inc()
	CartBranchesCompared.Observe(float64(branches))
}

// RecordBranchResolution records the outcome of a single branch resolution
// ("complete", "incomplete", or "timeout").
func RecordBranchResolution(result string) {
	BranchResolutionsTotal.WithLabelValues(result).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheSize updates the cache size gauge.
func UpdateCacheSize(size int) {
	CacheSize.Set(float64(size))
}
