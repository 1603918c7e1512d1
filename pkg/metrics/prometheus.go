// Package metrics provides Prometheus metrics for the GradePilot service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requiredAverageBuckets spans "secured" through "unreachable".
var requiredAverageBuckets = []float64{0, 50, 60, 70, 80, 90, 95, 100, 110, 125, 150} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the GradePilot service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Forecast Metrics - what the engine is asked and what it answers
	forecastsComputed *prometheus.CounterVec
	forecastLatency   prometheus.Histogram
	requiredAverage   prometheus.Histogram
	targetStatus      *prometheus.CounterVec
	invalidWeights    prometheus.Counter

	// Course Metrics - stored snapshots and their churn
	coursesTotal      prometheus.Gauge
	courseMutations   *prometheus.CounterVec
	duplicateRequests prometheus.Counter

	// Store Metrics
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

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

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gradepilot",
		subsystem:        "forecast",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
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
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.forecastsComputed = auto.NewCounterVec(
		m.counterOpts("computed_total", "Total number of forecast derivations by kind"),
		[]string{"kind"},
	)
	m.forecastLatency = auto.NewHistogram(
		m.histogramOpts("latency_milliseconds", "Forecast derivation latency in milliseconds", m.histogramBuckets),
	)
	m.requiredAverage = auto.NewHistogram(
		m.histogramOpts("required_average_percent", "Distribution of required averages on remaining work", requiredAverageBuckets),
	)
	m.targetStatus = auto.NewCounterVec(
		m.counterOpts("target_status_total", "Forecasts by target status (secured, on_track, high_bar, unreachable, locked)"),
		[]string{"status"},
	)
	m.invalidWeights = auto.NewCounter(
		m.counterOpts("invalid_weights_total", "Forecasts whose category weights do not sum to 100"),
	)

	m.coursesTotal = auto.NewGauge(
		m.gaugeOpts("courses_total", "Number of stored courses"),
	)
	m.courseMutations = auto.NewCounterVec(
		m.counterOpts("course_mutations_total", "Course mutations by operation"),
		[]string{"op"},
	)
	m.duplicateRequests = auto.NewCounter(
		m.counterOpts("duplicate_requests_total", "Replayed request ids rejected by the deduper"),
	)

	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Snapshot store operation latency in milliseconds", m.histogramBuckets),
		[]string{"op"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Snapshot store errors by operation"),
		[]string{"op"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and error type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_bytes", "Allocated heap memory in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutines", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause time in milliseconds", m.histogramBuckets),
	)
}

// Forecast Metrics Functions.

// RecordForecast counts one derivation of kind ("forecast", "whatif") and its latency.
func RecordForecast(kind string, latencyMs float64) {
	globalManager.forecastsComputed.WithLabelValues(kind).Inc()
	globalManager.forecastLatency.Observe(latencyMs)
}

// ObserveRequiredAverage records a required average on remaining work.
func ObserveRequiredAverage(value float64) {
	globalManager.requiredAverage.Observe(value)
}

// RecordTargetStatus counts a forecast by its target status.
func RecordTargetStatus(status string) {
	globalManager.targetStatus.WithLabelValues(status).Inc()
}

// RecordInvalidWeights counts a forecast whose weights fail the 100% check.
func RecordInvalidWeights() {
	globalManager.invalidWeights.Inc()
}

// Course Metrics Functions.

// UpdateCoursesTotal sets the number of stored courses.
func UpdateCoursesTotal(count int) {
	globalManager.coursesTotal.Set(float64(count))
}

// RecordCourseMutation counts a course mutation such as "add_category".
func RecordCourseMutation(op string) {
	globalManager.courseMutations.WithLabelValues(op).Inc()
}

// RecordDuplicateRequest counts a replayed request id.
func RecordDuplicateRequest() {
	globalManager.duplicateRequests.Inc()
}

// Store Metrics Functions.

// RecordStoreLatency records store operation latency.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
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
