package graph

import (
	"github.com/google/uuid"

	"github.com/dd0wney/roadgraph/pkg/directory"
	"github.com/dd0wney/roadgraph/pkg/encoding"
	"github.com/dd0wney/roadgraph/pkg/logging"
	"github.com/dd0wney/roadgraph/pkg/metrics"
	"github.com/dd0wney/roadgraph/pkg/nameidx"
	"github.com/dd0wney/roadgraph/pkg/propstore"
)

// classFingerprint identifies the on-disk record layout this build writes.
// It changes only when nodeRecordBytes/edgeRecordBytes or field order change.
const classFingerprint int32 = 0x52470001 // "RG" + layout version 1

// Engine is the packed-array graph store. It is single-writer: callers must
// not overlap any mutating method with any other method on the same
// instance. Concurrent readers are safe only while no mutation runs.
type Engine struct {
	nodes directory.Directory
	edges directory.Directory
	geo   directory.Directory

	names      *nameidx.Index
	properties *propstore.Store
	codec      encoding.Manager

	log         logging.Logger
	metrics     *metrics.Registry
	debugChecks bool

	configured bool

	nodeCount  int32
	edgeCount  int32
	maxGeoRef  int32

	bbox BBox

	removed map[int32]struct{}
}

// New allocates an unconfigured Engine. Call Create or LoadExisting before
// any other method.
func New(log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewDefaultLogger()
	}
	return &Engine{
		log:     log,
		removed: make(map[int32]struct{}),
		bbox: BBox{
			MinLat: 1 << 30, MaxLat: -(1 << 30),
			MinLon: 1 << 30, MaxLon: -(1 << 30),
		},
	}
}

// Create configures a fresh Engine against empty regions. Create or
// LoadExisting may each be called exactly once.
func (e *Engine) Create(cfg Config) error {
	if e.configured {
		return NewError("create").Cause(ErrDoubleConfigured).Err()
	}
	if cfg.Codec == nil {
		return NewError("create").Cause(ErrNotConfigured).Err()
	}
	if err := cfg.Validate(); err != nil {
		return NewError("create").Cause(ErrNotConfigured).Context(err.Error()).Err()
	}

	e.nodes = cfg.Nodes
	e.edges = cfg.Edges
	e.geo = cfg.Geometry
	e.names = cfg.Names
	e.properties = cfg.Properties
	e.codec = cfg.Codec
	e.debugChecks = cfg.DebugChecks
	e.metrics = cfg.Metrics

	if err := e.nodes.Create(nodesHeaderBytes, 0); err != nil {
		return NewError("create").Entity("nodes").Cause(err).Err()
	}
	if err := e.edges.Create(edgesHeaderBytes, 0); err != nil {
		return NewError("create").Entity("edges").Cause(err).Err()
	}
	if err := e.geo.Create(geoHeaderBytes, 0); err != nil {
		return NewError("create").Entity("geometry").Cause(err).Err()
	}

	e.nodeCount = 0
	e.edgeCount = 0
	e.maxGeoRef = initialMaxGeoRef

	e.nodes.SetHeader(nodesHdrClassFingerprint, classFingerprint)
	e.nodes.SetHeader(nodesHdrEntryBytes, nodeRecordBytes)
	e.edges.SetHeader(edgesHdrEntryBytes, edgeRecordBytes)
	e.edges.SetHeader(edgesHdrFingerprint, e.codec.Fingerprint())
	e.geo.SetHeader(geoHdrMaxGeoRef, e.maxGeoRef)

	e.properties.PutCurrentVersions(classFingerprint)
	e.properties.Put("roadgraph.instance_id", uuid.New().String())

	e.configured = true
	e.log.Info("engine created", logging.Component("graph"), logging.Operation("create"))
	return nil
}

// LoadExisting reconstructs engine state from a previously flushed store.
// LoadExisting or Create may each be called exactly once.
func (e *Engine) LoadExisting(cfg Config) error {
	if e.configured {
		return NewError("load").Cause(ErrDoubleConfigured).Err()
	}
	if cfg.Codec == nil {
		return NewError("load").Cause(ErrNotConfigured).Err()
	}
	if err := cfg.Validate(); err != nil {
		return NewError("load").Cause(ErrNotConfigured).Context(err.Error()).Err()
	}

	e.nodes = cfg.Nodes
	e.edges = cfg.Edges
	e.geo = cfg.Geometry
	e.names = cfg.Names
	e.properties = cfg.Properties
	e.codec = cfg.Codec
	e.debugChecks = cfg.DebugChecks
	e.metrics = cfg.Metrics

	nodesOK, err := e.nodes.LoadExisting(nodesHeaderBytes)
	if err != nil {
		return NewError("load").Entity("nodes").Cause(err).Err()
	}
	edgesOK, err := e.edges.LoadExisting(edgesHeaderBytes)
	if err != nil {
		return NewError("load").Entity("edges").Cause(err).Err()
	}
	geoOK, err := e.geo.LoadExisting(geoHeaderBytes)
	if err != nil {
		return NewError("load").Entity("geometry").Cause(err).Err()
	}
	if !nodesOK || !edgesOK || !geoOK {
		return NewError("load").Cause(ErrCorrupt).Context("missing region").Err()
	}

	if fp := e.nodes.GetHeader(nodesHdrClassFingerprint); fp != classFingerprint {
		return NewError("load").Cause(ErrCorrupt).Context("class fingerprint mismatch").Err()
	}
	if fp := e.edges.GetHeader(edgesHdrFingerprint); fp != e.codec.Fingerprint() {
		return NewError("load").Cause(ErrCorrupt).Context("encoder fingerprint mismatch").Err()
	}

	if err := e.properties.CheckVersions(classFingerprint, true); err != nil {
		return NewError("load").Cause(ErrCorrupt).Context(err.Error()).Err()
	}

	e.nodeCount = e.nodes.GetHeader(nodesHdrNodeCount)
	e.bbox.MinLon = dequantize(e.nodes.GetHeader(nodesHdrMinLon))
	e.bbox.MaxLon = dequantize(e.nodes.GetHeader(nodesHdrMaxLon))
	e.bbox.MinLat = dequantize(e.nodes.GetHeader(nodesHdrMinLat))
	e.bbox.MaxLat = dequantize(e.nodes.GetHeader(nodesHdrMaxLat))

	e.edgeCount = e.edges.GetHeader(edgesHdrEdgeCount)
	e.maxGeoRef = e.geo.GetHeader(geoHdrMaxGeoRef)

	e.verifyRegionChecksums()

	e.configured = true
	e.log.Info("engine loaded", logging.Component("graph"), logging.Operation("load"),
		logging.Int("node_count", int(e.nodeCount)), logging.Int("edge_count", int(e.edgeCount)))
	return nil
}

// Flush commits headers and all three owned regions, then stamps version,
// fingerprint and per-region checksum properties and flushes the properties
// store last, since the checksums can only be computed once the regions
// they cover have committed. The names collaborator is the caller's
// responsibility to flush in the surrounding storage lifecycle.
func (e *Engine) Flush() error {
	if !e.configured {
		return NewError("flush").Cause(ErrNotConfigured).Err()
	}
	timer := logging.StartTimer(e.log, "", logging.Component("graph"), logging.Operation("flush"))

	e.nodes.SetHeader(nodesHdrNodeCount, e.nodeCount)
	e.nodes.SetHeader(nodesHdrMinLon, quantize(e.bbox.MinLon))
	e.nodes.SetHeader(nodesHdrMaxLon, quantize(e.bbox.MaxLon))
	e.nodes.SetHeader(nodesHdrMinLat, quantize(e.bbox.MinLat))
	e.nodes.SetHeader(nodesHdrMaxLat, quantize(e.bbox.MaxLat))

	e.edges.SetHeader(edgesHdrEdgeCount, e.edgeCount)
	e.geo.SetHeader(geoHdrMaxGeoRef, e.maxGeoRef)

	if err := e.geo.Flush(); err != nil {
		return NewError("flush").Entity("geometry").Cause(err).Err()
	}
	if err := e.edges.Flush(); err != nil {
		return NewError("flush").Entity("edges").Cause(err).Err()
	}
	if err := e.nodes.Flush(); err != nil {
		return NewError("flush").Entity("nodes").Cause(err).Err()
	}

	e.properties.PutCurrentVersions(classFingerprint)
	e.stampRegionChecksums()
	if err := e.properties.Flush(); err != nil {
		return NewError("flush").Entity("properties").Cause(err).Err()
	}

	if e.metrics != nil {
		stats := e.Stats()
		e.metrics.UpdateEngineGauges(
			uint64(stats.NodeCount), uint64(stats.EdgeCount),
			uint64(stats.TombstoneCount), uint64(stats.GeoWordsUsed),
			uint64(stats.PendingRemovals))
		e.metrics.SetDirectoryBytes(e.nodes.Name(), e.nodes.Capacity())
		e.metrics.SetDirectoryBytes(e.edges.Name(), e.edges.Capacity())
		e.metrics.SetDirectoryBytes(e.geo.Name(), e.geo.Capacity())
	}

	timer.EndWithLevel(logging.DebugLevel, "engine flushed")
	return nil
}

// Close releases the three owned regions in reverse flush order. It does
// not flush; callers that want durability must Flush first.
func (e *Engine) Close() error {
	if !e.configured {
		return nil
	}
	var firstErr error
	if err := e.nodes.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.edges.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.geo.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// BBox returns the current bounding box of every coordinate ever inserted.
func (e *Engine) BBox() BBox { return e.bbox }

// NodeCount returns the number of node slots ever touched by a write.
func (e *Engine) NodeCount() int32 { return e.nodeCount }

// EdgeCount returns the total number of edge slots ever allocated,
// including tombstones.
func (e *Engine) EdgeCount() int32 { return e.edgeCount }

// Stats returns a point-in-time size/compaction snapshot.
func (e *Engine) Stats() Stats {
	var tombstones int32
	for i := int32(0); i < e.edgeCount; i++ {
		if e.edges.GetInt(int64(i)*edgeRecordBytes + edgeOffNodeA) == NoNode {
			tombstones++
		}
	}
	return Stats{
		NodeCount:       e.nodeCount,
		EdgeCount:       e.edgeCount,
		TombstoneCount:  tombstones,
		GeoWordsUsed:    e.maxGeoRef,
		PendingRemovals: len(e.removed),
	}
}
