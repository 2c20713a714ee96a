// Package metrics provides Prometheus metrics for the WTStats dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as the "outcome" label on fixture metrics.
const (
	OutcomeOK        = "ok"
	OutcomeNoHistory = "no_history"
	OutcomeFetch     = "fetch_error"
	OutcomeNetwork   = "network_error"
	OutcomeMalformed = "malformed_data"
	OutcomeIntegrity = "data_integrity"
)

// Manager manages all Prometheus metrics for the WTStats service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Fixture fetches
	fixtureFetches       *prometheus.CounterVec
	fixtureFetchDuration *prometheus.HistogramVec

	// Read-through cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheEntries   prometheus.Gauge

	// Head-to-head
	rivalryReconciled *prometheus.CounterVec
	rivalryNoHistory  prometheus.Counter
	rivalryIntegrity  prometheus.Counter

	// Heatmaps
	heatmapCells *prometheus.CounterVec

	// Manager snapshot refresh
	snapshotRefreshes    prometheus.Counter
	snapshotStaleDropped prometheus.Counter
	snapshotManagers     prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wtstats",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
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

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fixtureFetches = auto.NewCounterVec(
		m.counterOpts("fixture_fetches_total", "Fixture fetches by resource kind and outcome"),
		[]string{"resource", "outcome"},
	)
	m.fixtureFetchDuration = auto.NewHistogramVec(
		m.histogramOpts("fixture_fetch_duration_milliseconds", "Fixture fetch latency in milliseconds"),
		[]string{"resource"},
	)

	m.cacheHits = auto.NewCounter(m.counterOpts("cache_hits_total", "Fixture cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("cache_misses_total", "Fixture cache misses"))
	m.cacheEvictions = auto.NewCounter(m.counterOpts("cache_evictions_total", "Fixture cache evictions (capacity, ttl or explicit)"))
	m.cacheEntries = auto.NewGauge(m.gaugeOpts("cache_entries", "Fixture payloads currently cached"))

	m.rivalryReconciled = auto.NewCounterVec(
		m.counterOpts("rivalry_reconciled_total", "Head-to-head records reconciled, by whether sides were swapped"),
		[]string{"swapped"},
	)
	m.rivalryNoHistory = auto.NewCounter(m.counterOpts("rivalry_no_history_total", "Head-to-head lookups with no recorded history"))
	m.rivalryIntegrity = auto.NewCounter(m.counterOpts("rivalry_integrity_errors_total", "Head-to-head records whose owners did not match the query"))

	m.heatmapCells = auto.NewCounterVec(
		m.counterOpts("heatmap_cells_total", "Heatmap cells classified, by bucket"),
		[]string{"bucket"},
	)

	m.snapshotRefreshes = auto.NewCounter(m.counterOpts("snapshot_refreshes_total", "Manager snapshot refreshes applied"))
	m.snapshotStaleDropped = auto.NewCounter(m.counterOpts("snapshot_stale_dropped_total", "Snapshot refreshes discarded because a newer one resolved first"))
	m.snapshotManagers = auto.NewGauge(m.gaugeOpts("snapshot_managers", "Managers in the current snapshot"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint and error type"),
		[]string{"endpoint", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordFixtureFetch counts one fixture fetch and its latency.
func RecordFixtureFetch(resource, outcome string, latencyMs float64) {
	globalManager.fixtureFetches.WithLabelValues(resource, outcome).Inc()
	globalManager.fixtureFetchDuration.WithLabelValues(resource).Observe(latencyMs)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheEviction increments the cache eviction counter.
func RecordCacheEviction() {
	globalManager.cacheEvictions.Inc()
}

// UpdateCacheEntries sets the number of cached payloads.
func UpdateCacheEntries(n int) {
	globalManager.cacheEntries.Set(float64(n))
}

// RecordRivalryReconciled counts a reconciled head-to-head record.
func RecordRivalryReconciled(swapped bool) {
	label := "false"
	if swapped {
		label = "true"
	}
	globalManager.rivalryReconciled.WithLabelValues(label).Inc()
}

// RecordRivalryNoHistory counts a head-to-head lookup that had no data.
func RecordRivalryNoHistory() {
	globalManager.rivalryNoHistory.Inc()
}

// RecordRivalryIntegrityError counts a record whose owners did not match.
func RecordRivalryIntegrityError() {
	globalManager.rivalryIntegrity.Inc()
}

// RecordHeatmapCells counts n classified heatmap cells in bucket.
func RecordHeatmapCells(bucket string, n int) {
	globalManager.heatmapCells.WithLabelValues(bucket).Add(float64(n))
}

// RecordSnapshotRefresh counts an applied snapshot refresh.
func RecordSnapshotRefresh(managers int) {
	globalManager.snapshotRefreshes.Inc()
	globalManager.snapshotManagers.Set(float64(managers))
}

// RecordSnapshotStale counts a refresh dropped as out of date.
func RecordSnapshotStale() {
	globalManager.snapshotStaleDropped.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
