package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.EngineNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "roadgraph_engine_nodes_total",
			Help: "Total number of nodes in the node table",
		},
	)

	r.EngineEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "roadgraph_engine_edges_total",
			Help: "Total number of allocated edge slots, including tombstones",
		},
	)

	r.EngineTombstonesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "roadgraph_engine_tombstones_total",
			Help: "Number of tombstoned (invalidated) edge slots",
		},
	)

	r.EngineGeoWordsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "roadgraph_engine_geo_words_total",
			Help: "High-water mark of the geometry heap, in 32-bit words",
		},
	)

	r.EnginePendingRemovals = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "roadgraph_engine_pending_removals",
			Help: "Size of the in-memory removal set awaiting optimize",
		},
	)

	r.EngineOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadgraph_engine_operations_total",
			Help: "Total number of engine operations",
		},
		[]string{"operation", "status"},
	)

	r.EngineOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roadgraph_engine_operation_duration_seconds",
			Help:    "Engine operation duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"operation"},
	)

	r.EngineCompactionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roadgraph_engine_compaction_duration_seconds",
			Help:    "Duration of optimize() compaction passes",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.EngineCompactionNodesRemoved = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "roadgraph_engine_compaction_nodes_removed_total",
			Help: "Cumulative number of nodes removed by optimize()",
		},
	)

	r.EngineDirectoryBytesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roadgraph_engine_directory_bytes_total",
			Help: "Committed byte size per Directory region",
		},
		[]string{"region"},
	)
}
