// Package metrics provides Prometheus instrumentation for the dashboard service.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Session state
	requestsCounted prometheus.Gauge
	deploymentInfo  *prometheus.GaugeVec

	// Snapshot builder
	snapshotBuilds   prometheus.Counter
	snapshotFailures *prometheus.CounterVec
	snapshotLatency  prometheus.Histogram

	// Host gauges, refreshed by the background sampler
	hostCPUPercent       prometheus.Gauge
	hostMemoryPercent    prometheus.Gauge
	hostMemoryUsedBytes  prometheus.Gauge
	hostMemoryTotalBytes prometheus.Gauge

	// Demo endpoints
	loadSimulationDuration prometheus.Histogram
	loadSimulationRejected prometheus.Counter
	featureToggles         *prometheus.CounterVec
	streamClients          prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var (
	globalManager  atomic.Pointer[Manager]             //nolint:gochecknoglobals // singleton used by package-level helpers
	customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // registry behind globalManager
)

func init() { //nolint:gochecknoinits // global metrics setup
	Configure()
}

// Configure replaces the default manager with one built from opts on a fresh
// registry, so constant labels reach every exported series. Handlers obtained
// from Handler before the call keep serving the old registry.
func Configure(opts ...Option) *Manager {
	reg := prometheus.NewRegistry()
	m := NewManager(append([]Option{WithPrometheusRegistry(reg)}, opts...)...)
	customRegistry.Store(reg)
	globalManager.Store(m)
	return m
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shipboard",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.requestsCounted = auto.NewGauge(m.gaugeOpts(
		"requests_counted", "Current value of the process-wide dashboard request counter"))
	m.deploymentInfo = auto.NewGaugeVec(m.gaugeOpts(
		"deployment_info", "Deployment metadata of the running build; value is always 1"),
		[]string{"version", "environment", "git_commit", "build_number"})

	m.snapshotBuilds = auto.NewCounter(m.counterOpts(
		"snapshot_builds_total", "Total number of metrics snapshots built successfully"))
	m.snapshotFailures = auto.NewCounterVec(m.counterOpts(
		"snapshot_failures_total", "Total number of snapshot builds that failed, by host resource"),
		[]string{"resource"})
	m.snapshotLatency = auto.NewHistogram(m.histogramOpts(
		"snapshot_latency_milliseconds", "Time spent building a metrics snapshot, including CPU sampling", m.histogramBuckets))

	m.hostCPUPercent = auto.NewGauge(m.gaugeOpts("host_cpu_percent", "Host CPU utilization percentage"))
	m.hostMemoryPercent = auto.NewGauge(m.gaugeOpts("host_memory_percent", "Host memory utilization percentage"))
	m.hostMemoryUsedBytes = auto.NewGauge(m.gaugeOpts("host_memory_used_bytes", "Host memory in use"))
	m.hostMemoryTotalBytes = auto.NewGauge(m.gaugeOpts("host_memory_total_bytes", "Host memory installed"))

	m.loadSimulationDuration = auto.NewHistogram(m.histogramOpts(
		"load_simulation_duration_milliseconds", "Wall time of simulated CPU load runs", m.histogramBuckets))
	m.loadSimulationRejected = auto.NewCounter(m.counterOpts(
		"load_simulation_rejected_total", "Simulated load requests rejected by the rate limiter"))
	m.featureToggles = auto.NewCounterVec(m.counterOpts(
		"feature_toggles_total", "Random feature toggles handed out, by feature and outcome"),
		[]string{"feature", "enabled"})
	m.streamClients = auto.NewGauge(m.gaugeOpts("stream_clients", "Open websocket metrics streams"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts(
		"http_errors_total", "HTTP responses with status >= 400 by endpoint and error type"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Go heap bytes allocated and in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// UpdateRequestCount mirrors the request counter value.
func (m *Manager) UpdateRequestCount(n int64) {
	if m.enabled {
		m.requestsCounted.Set(float64(n))
	}
}

// SetDeploymentInfo publishes the deployment metadata as a constant-1 gauge.
func (m *Manager) SetDeploymentInfo(version, environment, gitCommit, buildNumber string) {
	if m.enabled {
		m.deploymentInfo.WithLabelValues(version, environment, gitCommit, buildNumber).Set(1)
	}
}

// RecordSnapshotBuilt records a successful snapshot and its build latency.
func (m *Manager) RecordSnapshotBuilt(latencyMs float64) {
	if m.enabled {
		m.snapshotBuilds.Inc()
		m.snapshotLatency.Observe(latencyMs)
	}
}

// RecordSnapshotFailure records a snapshot that failed on resource.
func (m *Manager) RecordSnapshotFailure(resource string) {
	if m.enabled {
		m.snapshotFailures.WithLabelValues(resource).Inc()
	}
}

// UpdateHostUsage sets the host CPU and memory gauges.
func (m *Manager) UpdateHostUsage(cpuPercent, memPercent float64, memUsed, memTotal uint64) {
	if !m.enabled {
		return
	}
	m.hostCPUPercent.Set(cpuPercent)
	m.hostMemoryPercent.Set(memPercent)
	m.hostMemoryUsedBytes.Set(float64(memUsed))
	m.hostMemoryTotalBytes.Set(float64(memTotal))
}

// RecordLoadSimulation records a completed busy-loop run.
func (m *Manager) RecordLoadSimulation(durationMs float64) {
	if m.enabled {
		m.loadSimulationDuration.Observe(durationMs)
	}
}

// RecordLoadSimulationRejected counts a rate-limited simulate-load call.
func (m *Manager) RecordLoadSimulationRejected() {
	if m.enabled {
		m.loadSimulationRejected.Inc()
	}
}

// IncStreamClients tracks a newly opened metrics stream.
func (m *Manager) IncStreamClients() {
	if m.enabled {
		m.streamClients.Inc()
	}
}

// DecStreamClients tracks a closed metrics stream.
func (m *Manager) DecStreamClients() {
	if m.enabled {
		m.streamClients.Dec()
	}
}

// RecordFeatureToggle counts a toggle outcome.
func (m *Manager) RecordFeatureToggle(feature string, enabled bool) {
	if !m.enabled {
		return
	}
	state := "false"
	if enabled {
		state = "true"
	}
	m.featureToggles.WithLabelValues(feature, state).Inc()
}

// RecordHTTPRequest records one served request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response by type.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if m.enabled {
		m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the Go heap usage gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes an average GC pause.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// Package-level helpers delegate to the global manager.

func UpdateRequestCount(n int64) { globalManager.Load().UpdateRequestCount(n) }

func SetDeploymentInfo(version, environment, gitCommit, buildNumber string) {
	globalManager.Load().SetDeploymentInfo(version, environment, gitCommit, buildNumber)
}

func RecordSnapshotBuilt(latencyMs float64)   { globalManager.Load().RecordSnapshotBuilt(latencyMs) }
func RecordSnapshotFailure(resource string)   { globalManager.Load().RecordSnapshotFailure(resource) }
func RecordLoadSimulation(durationMs float64) { globalManager.Load().RecordLoadSimulation(durationMs) }
func RecordLoadSimulationRejected()           { globalManager.Load().RecordLoadSimulationRejected() }
func IncStreamClients()                       { globalManager.Load().IncStreamClients() }
func DecStreamClients()                       { globalManager.Load().DecStreamClients() }

func UpdateHostUsage(cpuPercent, memPercent float64, memUsed, memTotal uint64) {
	globalManager.Load().UpdateHostUsage(cpuPercent, memPercent, memUsed, memTotal)
}

func RecordFeatureToggle(feature string, enabled bool) {
	globalManager.Load().RecordFeatureToggle(feature, enabled)
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.Load().RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.Load().RecordHTTPError(endpoint, method, errorType)
}

func UpdateSystemMemoryUsage(bytes uint64)    { globalManager.Load().UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(count int)    { globalManager.Load().UpdateSystemGoroutineCount(count) }
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.Load().RecordSystemGCPauseTime(pauseMs) }

// SetDefault replaces the manager used by the package-level helpers.
func SetDefault(m *Manager) error {
	if m == nil {
		return ErrNotInitialized
	}
	globalManager.Store(m)
	return nil
}

// GetRegistry returns the registry backing the default manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry.Load(), promhttp.HandlerOpts{})
}
