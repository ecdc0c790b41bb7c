package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the roadgraph storage engine.
type Registry struct {
	// Engine Metrics
	EngineNodesTotal             prometheus.Gauge
	EngineEdgesTotal             prometheus.Gauge
	EngineTombstonesTotal        prometheus.Gauge
	EngineGeoWordsTotal          prometheus.Gauge
	EnginePendingRemovals        prometheus.Gauge
	EngineOperationsTotal        *prometheus.CounterVec
	EngineOperationDuration      *prometheus.HistogramVec
	EngineCompactionDuration     prometheus.Histogram
	EngineCompactionNodesRemoved prometheus.Counter
	EngineDirectoryBytesTotal    *prometheus.GaugeVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initEngineMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
