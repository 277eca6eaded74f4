// Package metrics provides Prometheus metrics for the flockmark engine.
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

	// Ingestion metrics.
	batchRecordsLoaded *prometheus.CounterVec
	recordsDropped     *prometheus.CounterVec

	// Engine metrics.
	calculateRuns   prometheus.Counter
	fusionDuration  prometheus.Histogram
	scoringLatency  prometheus.Histogram
	animalCount     prometheus.Gauge
	classifications *prometheus.GaugeVec

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "flockmark",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.batchRecordsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_records_loaded_total",
		Help:      "Total event records loaded, by batch type",
	}, []string{"batch"})

	m.recordsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_dropped_total",
		Help:      "Records skipped during fusion for carrying no recognized identifier",
	}, []string{"batch"})

	m.calculateRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calculate_runs_total",
		Help:      "Total fusion plus scoring runs",
	})

	m.fusionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fusion_duration_milliseconds",
		Help:      "Histogram of full fusion run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-animal scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.animalCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "animal_count",
		Help:      "Animals produced by the most recent fusion run",
	})

	m.classifications = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classification_count",
		Help:      "Animals per classification tier in the most recent run",
	}, []string{"classification"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests, by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})
}

// GetRegistry returns the registry metrics are exposed from.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

func RecordBatchLoaded(batch string, count int) {
	globalManager.batchRecordsLoaded.WithLabelValues(batch).Add(float64(count))
}

func RecordRecordDropped(batch string) {
	globalManager.recordsDropped.WithLabelValues(batch).Inc()
}

func RecordCalculateRun() {
	globalManager.calculateRuns.Inc()
}

func RecordFusionDuration(ms float64) {
	globalManager.fusionDuration.Observe(ms)
}

func RecordScoringLatency(ms float64) {
	globalManager.scoringLatency.Observe(ms)
}

func UpdateAnimalCount(n int) {
	globalManager.animalCount.Set(float64(n))
}

func UpdateClassificationCount(classification string, n int) {
	globalManager.classifications.WithLabelValues(classification).Set(float64(n))
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}
