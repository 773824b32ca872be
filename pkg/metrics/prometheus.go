// Package metrics provides Prometheus metrics for the STRIDE
// recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	recommendRequests  prometheus.Counter
	recommendEmpty     prometheus.Counter
	recommendDuration  prometheus.Histogram
	candidatesFiltered prometheus.Histogram
	candidatesReturned prometheus.Histogram

	// Explainer metrics
	explainLatency   prometheus.Histogram
	explainFailures  prometheus.Counter
	explainCacheHits prometheus.Counter

	// Catalog metrics
	catalogSize    prometheus.Gauge
	catalogReloads prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "stride",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recommendRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommend_requests_total",
		Help:      "Total number of recommendation requests processed",
	})

	m.recommendEmpty = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommend_empty_total",
		Help:      "Total number of requests where filtering removed every candidate",
	})

	m.recommendDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommend_duration_milliseconds",
		Help:      "Histogram of end-to-end pipeline duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.candidatesFiltered = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_filtered",
		Help:      "Number of catalog records eliminated by hard constraints per request",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	})

	m.candidatesReturned = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_returned",
		Help:      "Number of ranked results returned per request",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	})

	m.explainLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "explain_latency_milliseconds",
		Help:      "Latency of language-model explanation calls in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.explainFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "explain_failures_total",
		Help:      "Total explanation calls that timed out or errored (degraded to empty)",
	})

	m.explainCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "explain_cache_hits_total",
		Help:      "Total explanations served from the in-memory cache",
	})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_size",
		Help:      "Number of valid records in the current catalog snapshot",
	})

	m.catalogReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_reloads_total",
		Help:      "Total number of catalog snapshot swaps",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total HTTP error responses by endpoint and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordRecommendRequest increments the request counter.
func RecordRecommendRequest() {
	globalManager.recommendRequests.Inc()
}

// RecordRecommendEmpty increments the empty-result counter.
func RecordRecommendEmpty() {
	globalManager.recommendEmpty.Inc()
}

// RecordRecommendDuration records pipeline duration in milliseconds.
func RecordRecommendDuration(ms float64) {
	globalManager.recommendDuration.Observe(ms)
}

// RecordCandidatesFiltered records how many records a request eliminated.
func RecordCandidatesFiltered(n int) {
	globalManager.candidatesFiltered.Observe(float64(n))
}

// RecordCandidatesReturned records how many results a request returned.
func RecordCandidatesReturned(n int) {
	globalManager.candidatesReturned.Observe(float64(n))
}

// RecordExplainLatency records an explanation call's latency in milliseconds.
func RecordExplainLatency(ms float64) {
	globalManager.explainLatency.Observe(ms)
}

// RecordExplainFailure increments the degraded-explanation counter.
func RecordExplainFailure() {
	globalManager.explainFailures.Inc()
}

// RecordExplainCacheHit increments the explanation cache hit counter.
func RecordExplainCacheHit() {
	globalManager.explainCacheHits.Inc()
}

// UpdateCatalogSize sets the current catalog snapshot size.
func UpdateCatalogSize(n int) {
	globalManager.catalogSize.Set(float64(n))
}

// RecordCatalogReload increments the snapshot swap counter.
func RecordCatalogReload() {
	globalManager.catalogReloads.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by the
// global manager, for serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
