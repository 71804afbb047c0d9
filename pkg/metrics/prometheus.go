// Package metrics provides Prometheus metrics for the splitpool settlement service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the splitpool service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Settlement Metrics
	settlementsComputed *prometheus.CounterVec
	transfersEmitted    prometheus.Histogram
	settleLatency       prometheus.Histogram
	harmonyScore        prometheus.Gauge
	masterSplits        prometheus.Counter

	// Validation Metrics
	validationRejections prometheus.Counter
	validationCoercions  prometheus.Counter

	// Memo Metrics
	memoHits   prometheus.Counter
	memoMisses prometheus.Counter
	memoSize   prometheus.Gauge

	// Repository Metrics
	groupsTotal          prometheus.Gauge
	participantsTotal    prometheus.Gauge
	repositoryShardCount prometheus.Gauge
	repositoryLatency    *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "splitpool",
		subsystem:        "settlement",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Settlement Metrics
	m.settlementsComputed = auto.NewCounterVec(
		m.counterOpts("settlements_computed_total", "Total number of settlement plans computed"),
		[]string{"source"},
	)
	m.transfersEmitted = auto.NewHistogram(m.histogramOpts(
		"transfers_per_settlement",
		"Number of transfers in each computed settlement plan",
		prometheus.ExponentialBuckets(1, 2, 8),
	))
	m.settleLatency = auto.NewHistogram(m.histogramOpts(
		"settle_latency_milliseconds",
		"Histogram of settlement computation latency in milliseconds",
		m.histogramBuckets,
	))
	m.harmonyScore = auto.NewGauge(m.gaugeOpts("harmony_score", "Harmony score of the most recent settlement"))
	m.masterSplits = auto.NewCounter(m.counterOpts("master_splits_total", "Total number of settlements that earned the master split badge"))

	// Validation Metrics
	m.validationRejections = auto.NewCounter(m.counterOpts("validation_rejections_total", "Total number of settle requests rejected for invalid amounts"))
	m.validationCoercions = auto.NewCounter(m.counterOpts("validation_coercions_total", "Total number of invalid amounts coerced to zero"))

	// Memo Metrics
	m.memoHits = auto.NewCounter(m.counterOpts("memo_hits_total", "Total number of settlement memo cache hits"))
	m.memoMisses = auto.NewCounter(m.counterOpts("memo_misses_total", "Total number of settlement memo cache misses"))
	m.memoSize = auto.NewGauge(m.gaugeOpts("memo_size", "Current number of memoized settlements"))

	// Repository Metrics
	m.groupsTotal = auto.NewGauge(m.gaugeOpts("groups_total", "Total number of groups held in the store"))
	m.participantsTotal = auto.NewGauge(m.gaugeOpts("participants_total", "Total number of participants across all groups"))
	m.repositoryShardCount = auto.NewGauge(m.gaugeOpts("repository_shard_count", "Total number of repository shards"))
	m.repositoryLatency = auto.NewHistogramVec(
		m.histogramOpts("repository_latency_milliseconds", "Repository operation latency in milliseconds", m.histogramBuckets),
		[]string{"operation"},
	)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Settlement Metrics Functions.

// RecordSettlement records one computed settlement plan.
// source is "adhoc" for stateless requests and "group" for stored groups.
func RecordSettlement(source string, transfers int, harmony float64, masterSplit bool) {
	globalManager.settlementsComputed.WithLabelValues(source).Inc()
	globalManager.transfersEmitted.Observe(float64(transfers))
	globalManager.harmonyScore.Set(harmony)
	if masterSplit {
		globalManager.masterSplits.Inc()
	}
}

// RecordSettleLatency records settlement computation latency in milliseconds.
func RecordSettleLatency(latencyMs float64) {
	globalManager.settleLatency.Observe(latencyMs)
}

// RecordValidationRejection increments the rejected requests counter.
func RecordValidationRejection() {
	globalManager.validationRejections.Inc()
}

// RecordValidationCoercions adds n coerced amounts.
func RecordValidationCoercions(n int) {
	if n <= 0 {
		return
	}
	globalManager.validationCoercions.Add(float64(n))
}

// Memo Metrics Functions.

// RecordMemoHit increments the memo hit counter.
func RecordMemoHit() {
	globalManager.memoHits.Inc()
}

// RecordMemoMiss increments the memo miss counter.
func RecordMemoMiss() {
	globalManager.memoMisses.Inc()
}

// UpdateMemoSize sets the number of memoized settlements.
func UpdateMemoSize(size int64) {
	globalManager.memoSize.Set(float64(size))
}

// Repository Metrics Functions.

// UpdateGroupsTotal sets the number of stored groups.
func UpdateGroupsTotal(count int) {
	globalManager.groupsTotal.Set(float64(count))
}

// UpdateParticipantsTotal sets the number of participants across all groups.
func UpdateParticipantsTotal(count int) {
	globalManager.participantsTotal.Set(float64(count))
}

// UpdateRepositoryShardCount sets the total number of repository shards.
func UpdateRepositoryShardCount(count int) {
	globalManager.repositoryShardCount.Set(float64(count))
}

// RecordRepositoryLatency records the latency of one repository operation.
func RecordRepositoryLatency(operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
