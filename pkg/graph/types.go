// Package graph implements the packed-array road-network graph storage
// engine: a fixed-stride Node Table and Edge Table over a pluggable byte
// store, an adjacency-linked-list traversal protocol keyed by a canonical
// edge-orientation invariant, a variable-length geometry heap for pillar
// polylines, and in-place node-removal compaction.
//
// The engine is single-writer with no internal synchronization; see the
// package-level concurrency notes in Engine.
package graph

import (
	"github.com/dd0wney/roadgraph/pkg/directory"
	"github.com/dd0wney/roadgraph/pkg/encoding"
	"github.com/dd0wney/roadgraph/pkg/metrics"
	"github.com/dd0wney/roadgraph/pkg/nameidx"
	"github.com/dd0wney/roadgraph/pkg/propstore"
)

// Sentinels and fuses fixed by the on-disk format.
const (
	NoEdge   int32 = -1
	NoNode   int32 = -1
	MaxEdges       = 1000

	// initialMaxGeoRef reserves word offset 0 as "no geometry".
	initialMaxGeoRef int32 = 4
)

// Record strides, in bytes. Every field is a little-endian int32.
const (
	nodeRecordBytes = 3 * 4 // edge_ref, lat_q, lon_q
	edgeRecordBytes = 8 * 4 // node_a, node_b, link_a, link_b, dist_q, flags, geo_ref, name_ref
)

// Node field offsets within a node record.
const (
	nodeOffEdgeRef = 0
	nodeOffLatQ    = 4
	nodeOffLonQ    = 8
)

// Edge field offsets within an edge record.
const (
	edgeOffNodeA  = 0
	edgeOffNodeB  = 4
	edgeOffLinkA  = 8
	edgeOffLinkB  = 12
	edgeOffDistQ  = 16
	edgeOffFlags  = 20
	edgeOffGeoRef = 24
	edgeOffNameRef = 28
)

// Nodes header slots (seven int32 slots at offsets 0..24).
const (
	nodesHdrClassFingerprint = 0
	nodesHdrEntryBytes       = 4
	nodesHdrNodeCount        = 8
	nodesHdrMinLon           = 12
	nodesHdrMaxLon           = 16
	nodesHdrMinLat           = 20
	nodesHdrMaxLat           = 24
	nodesHeaderBytes         = 28
)

// Edges header slots.
const (
	edgesHdrEntryBytes = 0
	edgesHdrEdgeCount  = 4
	edgesHdrFingerprint = 8
	edgesHeaderBytes   = 12
)

// Geometry header slots.
const (
	geoHdrMaxGeoRef  = 0
	geoHeaderBytes   = 4
)

// quantizeFactor converts a float degree to a quantized int32, matching the
// fixed-point convention used throughout the persisted format. The external
// spec leaves degree quantization to a helper; this engine owns the
// simplest bit-stable one since no separate quantization collaborator is
// wired in.
const quantizeFactor = 1e7

// distanceFactor converts a meter distance to the stored int32 (meters *
// 1000, truncated toward zero).
const distanceFactor = 1000.0

func quantize(v float64) int32 {
	return int32(v * quantizeFactor)
}

func dequantize(q int32) float64 {
	return float64(q) / quantizeFactor
}

func quantizeDistance(meters float64) int32 {
	return int32(meters * distanceFactor)
}

func dequantizeDistance(q int32) float64 {
	return float64(q) / distanceFactor
}

// BBox is the four extremes of every coordinate ever inserted. SetNode
// widens it with the coordinates as given; after LoadExisting it holds the
// quantized values read back from the nodes header.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether (lat, lon) falls within the box, inclusive.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Stats is a point-in-time snapshot of engine size and compaction state.
type Stats struct {
	NodeCount        int32
	EdgeCount        int32
	TombstoneCount   int32
	GeoWordsUsed     int32
	PendingRemovals  int
}

// Config configures a fresh Engine at Create time.
type Config struct {
	// Nodes, Edges, Geometry are the three Directory-backed regions the
	// core owns directly.
	Nodes    directory.Directory `validate:"required"`
	Edges    directory.Directory `validate:"required"`
	Geometry directory.Directory `validate:"required"`

	// Names and Properties are the external collaborators; the core only
	// ever calls through their narrow interfaces.
	Names      *nameidx.Index      `validate:"required"`
	Properties *propstore.Store    `validate:"required"`
	Codec      encoding.Manager    `validate:"required"`

	// DebugChecks promotes the compaction "health check" anomalies from
	// warnings into hard CorruptChain errors (see DESIGN.md).
	DebugChecks bool

	// Metrics, if set, receives per-operation counters and gauges. Nil
	// disables instrumentation entirely; it is not required configuration.
	Metrics *metrics.Registry
}
