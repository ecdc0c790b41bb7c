package metrics

import (
	"runtime"
	"time"
)

// RecordEngineOperation records an engine operation and its duration.
func (r *Registry) RecordEngineOperation(operation, status string, duration time.Duration) {
	r.EngineOperationsTotal.WithLabelValues(operation, status).Inc()
	r.EngineOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCompaction records a completed optimize() pass.
func (r *Registry) RecordCompaction(duration time.Duration, nodesRemoved int) {
	r.EngineCompactionDuration.Observe(duration.Seconds())
	r.EngineCompactionNodesRemoved.Add(float64(nodesRemoved))
}

// UpdateEngineGauges refreshes the point-in-time gauges from an engine snapshot.
func (r *Registry) UpdateEngineGauges(nodeCount, edgeCount, tombstones, geoWords, pendingRemovals uint64) {
	r.EngineNodesTotal.Set(float64(nodeCount))
	r.EngineEdgesTotal.Set(float64(edgeCount))
	r.EngineTombstonesTotal.Set(float64(tombstones))
	r.EngineGeoWordsTotal.Set(float64(geoWords))
	r.EnginePendingRemovals.Set(float64(pendingRemovals))
}

// SetDirectoryBytes records the committed byte size of a Directory region.
func (r *Registry) SetDirectoryBytes(region string, bytes int64) {
	r.EngineDirectoryBytesTotal.WithLabelValues(region).Set(float64(bytes))
}

// UpdateProcessGauges refreshes the process-level gauges (uptime, goroutine
// count, heap stats) from a recorded start time. Intended to be called from
// a long-lived process's periodic tick, not from a short CLI invocation.
func (r *Registry) UpdateProcessGauges(startedAt time.Time) {
	r.UptimeSeconds.Set(time.Since(startedAt).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
