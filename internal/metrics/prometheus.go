package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics contains all Prometheus metrics for the fitness logger
type PrometheusMetrics struct {
	// Log metrics
	EntriesLoggedTotal *prometheus.CounterVec
	EntriesRejected    *prometheus.CounterVec
	StoreEntries       *prometheus.GaugeVec

	// BMI metrics
	BMICalculationsTotal *prometheus.CounterVec

	// Storage metrics
	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec

	// API metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Application health metrics
	ApplicationUptime prometheus.Gauge
	ComponentHealth   *prometheus.GaugeVec
	MemoryUsage       prometheus.Gauge
	GoroutineCount    prometheus.Gauge
}

// NewPrometheusMetrics creates all metrics and registers them with reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		EntriesLoggedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitlog_entries_logged_total",
				Help: "Total number of entries logged",
			},
			[]string{"kind"},
		),

		EntriesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitlog_entries_rejected_total",
				Help: "Total number of log requests rejected",
			},
			[]string{"kind", "reason"},
		),

		StoreEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fitlog_store_entries",
				Help: "Number of entries currently held in the store",
			},
			[]string{"kind"},
		),

		BMICalculationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitlog_bmi_calculations_total",
				Help: "Total number of BMI calculations requested",
			},
			[]string{"outcome"},
		),

		// Storage metrics
		StorageOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitlog_storage_operations_total",
				Help: "Total number of storage operations",
			},
			[]string{"operation", "status"},
		),

		StorageOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitlog_storage_operation_duration_seconds",
				Help:    "Duration of storage operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		// API metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitlog_http_requests_total",
				Help: "Total number of HTTP requests received",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitlog_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Application health metrics
		ApplicationUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fitlog_application_uptime_seconds",
				Help: "Application uptime in seconds",
			},
		),

		ComponentHealth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fitlog_component_health",
				Help: "Health status of application components (1=healthy, 0=unhealthy)",
			},
			[]string{"component"},
		),

		MemoryUsage: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fitlog_memory_usage_bytes",
				Help: "Current memory usage in bytes",
			},
		),

		GoroutineCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fitlog_goroutines",
				Help: "Number of running goroutines",
			},
		),
	}
}

// RecordEntryLogged records a stored entry and the new size of its log
func (m *PrometheusMetrics) RecordEntryLogged(kind string, size int) {
	m.EntriesLoggedTotal.WithLabelValues(kind).Inc()
	m.StoreEntries.WithLabelValues(kind).Set(float64(size))
}

// RecordEntryRejected records a log request that did not change the store
func (m *PrometheusMetrics) RecordEntryRejected(kind, reason string) {
	m.EntriesRejected.WithLabelValues(kind, reason).Inc()
}

// UpdateStoreEntries sets the current size of a log
func (m *PrometheusMetrics) UpdateStoreEntries(kind string, size int) {
	m.StoreEntries.WithLabelValues(kind).Set(float64(size))
}

// RecordBMICalculation records a BMI request by outcome
func (m *PrometheusMetrics) RecordBMICalculation(outcome string) {
	m.BMICalculationsTotal.WithLabelValues(outcome).Inc()
}

// RecordStorageOperation records a storage operation
func (m *PrometheusMetrics) RecordStorageOperation(operation, status string, duration time.Duration) {
	m.StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	m.StorageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *PrometheusMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UpdateApplicationUptime updates the application uptime metric
func (m *PrometheusMetrics) UpdateApplicationUptime(startTime time.Time) {
	m.ApplicationUptime.Set(time.Since(startTime).Seconds())
}

// UpdateComponentHealth updates the health status of a component
func (m *PrometheusMetrics) UpdateComponentHealth(component string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	m.ComponentHealth.WithLabelValues(component).Set(value)
}

// UpdateMemoryUsage updates the memory usage metric
func (m *PrometheusMetrics) UpdateMemoryUsage(bytes uint64) {
	m.MemoryUsage.Set(float64(bytes))
}

// UpdateGoroutineCount updates the goroutine count metric
func (m *PrometheusMetrics) UpdateGoroutineCount(count int) {
	m.GoroutineCount.Set(float64(count))
}
