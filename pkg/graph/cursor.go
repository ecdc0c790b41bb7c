package graph

// EdgeFilter decides whether a cursor should stop on an edge. A nil filter
// accepts every edge.
type EdgeFilter func(edgeID, base, other int32, flags int32) bool

// AcceptAll is the default EdgeFilter: every edge is accepted.
func AcceptAll(int32, int32, int32, int32) bool { return true }

// EdgeExplorer is the per-node adjacency iterator. Call SetBaseNode then
// repeatedly Next; it is invalidated by any structural mutation
// (AddEdge, Optimize) on the owning Engine.
type EdgeExplorer struct {
	e    *Engine
	base int32

	nextEdge int32
	edgeID   int32
	other    int32
	rec      edgeRecord
	started  bool
}

// NewExplorer creates an unpositioned explorer bound to e.
func (e *Engine) NewExplorer() *EdgeExplorer {
	return &EdgeExplorer{e: e, nextEdge: NoEdge, edgeID: NoEdge}
}

// SetBaseNode repositions the explorer to the head of base's adjacency
// chain. It does not itself load an edge; call Next to advance onto the
// first one.
func (x *EdgeExplorer) SetBaseNode(base int32) {
	x.base = base
	x.nextEdge = x.e.nodeEdgeRef(base)
	x.edgeID = NoEdge
	x.started = false
}

// Next advances to the next edge accepted by filter (AcceptAll if nil),
// returning false once the chain is exhausted. It fails with CorruptChain
// if the walk exceeds MaxEdges or detects a self-pointing link.
func (x *EdgeExplorer) Next(filter EdgeFilter) (bool, error) {
	if filter == nil {
		filter = AcceptAll
	}
	for steps := 0; steps < MaxEdges; steps++ {
		if x.nextEdge == NoEdge {
			return false, nil
		}
		candidate := x.nextEdge
		rec := x.e.readEdge(candidate)
		other := otherNode(rec, x.base)
		succ := linkField(rec, x.base, other)
		if succ == candidate {
			return false, CorruptChainError("explorer.next", x.base)
		}
		x.nextEdge = succ
		x.edgeID = candidate
		x.other = other
		x.rec = rec
		x.started = true
		if filter(candidate, x.base, other, x.canonicalFlags()) {
			return true, nil
		}
	}
	return false, CorruptChainError("explorer.next", x.base)
}

func (x *EdgeExplorer) canonicalFlags() int32 {
	if x.base <= x.other {
		return x.rec.flags
	}
	return x.e.codec.SwapDirection(x.rec.flags)
}

// EdgeID returns the current edge's stable id.
func (x *EdgeExplorer) EdgeID() int32 { return x.edgeID }

// BaseNode returns the node this explorer is walking from.
func (x *EdgeExplorer) BaseNode() int32 { return x.base }

// AdjNode returns the current edge's other endpoint.
func (x *EdgeExplorer) AdjNode() int32 { return x.other }

// Distance returns the current edge's distance in meters.
func (x *EdgeExplorer) Distance() float64 { return dequantizeDistance(x.rec.distQ) }

// GetFlags returns the flags oriented from base to adj, applying
// SwapDirection when base sits on the node_b side of the stored record.
func (x *EdgeExplorer) GetFlags() int32 { return x.canonicalFlags() }

// SetFlags re-invokes writeEdge with the current edge's existing links, so
// canonical orientation (and the new flag bits) round-trip correctly
// regardless of which side base is on.
func (x *EdgeExplorer) SetFlags(flags int32) {
	if x.base > x.other {
		flags = x.e.codec.SwapDirection(flags)
	}
	x.e.writeEdge(x.edgeID, x.rec.nodeA, x.rec.nodeB, x.rec.linkA, x.rec.linkB, x.rec.distQ, flags)
	x.rec = x.e.readEdge(x.edgeID)
}

// SetDistance overwrites the current edge's distance in meters.
func (x *EdgeExplorer) SetDistance(meters float64) {
	x.rec.distQ = quantizeDistance(meters)
	x.e.setEdgeDist(x.edgeID, x.rec.distQ)
}

// SetName overwrites the current edge's name dictionary reference.
func (x *EdgeExplorer) SetName(nameRef int32) {
	x.rec.nameRef = nameRef
	x.e.setEdgeNameRef(x.edgeID, nameRef)
}

// NameRef returns the current edge's name dictionary reference.
func (x *EdgeExplorer) NameRef() int32 { return x.rec.nameRef }

// GeoRef returns the current edge's geometry heap reference (0 = none).
func (x *EdgeExplorer) GeoRef() int32 { return x.rec.geoRef }

// reversed reports whether base sits on the node_b side of the stored
// (canonical) edge, i.e. whether geometry/flags need mirroring for this
// cursor's point of view.
func (x *EdgeExplorer) reversed() bool { return x.base > x.other }

// SingleEdgeCursor is a one-shot cursor over a specific edge, returned by
// EdgeProps. It starts already positioned and has no Next method — the
// "cursor at a known edge" role, distinct
// from EdgeExplorer's "ready to advance" role, chosen explicitly because
// the caller already knows the edge id and never wants to scan past it.
type SingleEdgeCursor struct {
	e      *Engine
	edgeID int32
	base   int32
	other  int32
	rec    edgeRecord
}

// EdgeProps bounds-checks edgeID, rejects tombstones, and returns a cursor
// whose base is the opposite endpoint from expectedAdj if expectedAdj is
// one of the edge's two endpoints. ok is false if edgeID is out of range,
// a tombstone, or not incident to expectedAdj.
func (e *Engine) EdgeProps(edgeID, expectedAdj int32) (cursor *SingleEdgeCursor, ok bool, err error) {
	if edgeID < 0 || edgeID >= e.edgeCount {
		return nil, false, EdgeOutOfBoundsError(edgeID)
	}
	rec := e.readEdge(edgeID)
	if rec.nodeA == NoNode {
		return nil, false, EdgeAlreadyRemovedError(edgeID)
	}
	var base int32
	switch expectedAdj {
	case rec.nodeA:
		base = rec.nodeB
	case rec.nodeB:
		base = rec.nodeA
	default:
		return nil, false, nil
	}
	return &SingleEdgeCursor{e: e, edgeID: edgeID, base: base, other: expectedAdj, rec: rec}, true, nil
}

func (c *SingleEdgeCursor) EdgeID() int32    { return c.edgeID }
func (c *SingleEdgeCursor) BaseNode() int32  { return c.base }
func (c *SingleEdgeCursor) AdjNode() int32   { return c.other }
func (c *SingleEdgeCursor) Distance() float64 { return dequantizeDistance(c.rec.distQ) }
func (c *SingleEdgeCursor) NameRef() int32   { return c.rec.nameRef }
func (c *SingleEdgeCursor) GeoRef() int32    { return c.rec.geoRef }

// GetFlags returns flags oriented from base to adj, matching the caller's
// requested orientation regardless of which side is stored canonically.
func (c *SingleEdgeCursor) GetFlags() int32 {
	if c.base <= c.other {
		return c.rec.flags
	}
	return c.e.codec.SwapDirection(c.rec.flags)
}

func (c *SingleEdgeCursor) reversed() bool { return c.base > c.other }

// AllEdgesCursor linearly advances across every edge slot, skipping
// tombstones. Flags returns the stored (canonical) flags verbatim;
// there is no SetFlags — callers needing orientation-aware writes must go
// through EdgeExplorer.
type AllEdgesCursor struct {
	e      *Engine
	nextID int32
	edgeID int32
	rec    edgeRecord
}

// NewAllEdgesCursor creates an unpositioned all-edges cursor.
func (e *Engine) NewAllEdgesCursor() *AllEdgesCursor {
	return &AllEdgesCursor{e: e, nextID: 0, edgeID: NoEdge}
}

// Next advances to the next non-tombstone edge, returning false once every
// slot has been visited.
func (c *AllEdgesCursor) Next() bool {
	for c.nextID < c.e.edgeCount {
		id := c.nextID
		c.nextID++
		rec := c.e.readEdge(id)
		if rec.nodeA == NoNode {
			continue
		}
		c.edgeID = id
		c.rec = rec
		return true
	}
	return false
}

func (c *AllEdgesCursor) EdgeID() int32    { return c.edgeID }
func (c *AllEdgesCursor) NodeA() int32     { return c.rec.nodeA }
func (c *AllEdgesCursor) NodeB() int32     { return c.rec.nodeB }
func (c *AllEdgesCursor) Distance() float64 { return dequantizeDistance(c.rec.distQ) }
func (c *AllEdgesCursor) Flags() int32     { return c.rec.flags }
func (c *AllEdgesCursor) NameRef() int32   { return c.rec.nameRef }
func (c *AllEdgesCursor) GeoRef() int32    { return c.rec.geoRef }
