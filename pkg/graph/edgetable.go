package graph

import "time"

// edgeRecord is a decoded copy of one edge-table row. It is never the
// addressable state itself — all mutation goes back through writeEdge or a
// targeted field write.
type edgeRecord struct {
	nodeA, nodeB int32
	linkA, linkB int32
	distQ        int32
	flags        int32
	geoRef       int32
	nameRef      int32
}

func (e *Engine) readEdge(id int32) edgeRecord {
	base := int64(id) * edgeRecordBytes
	return edgeRecord{
		nodeA:   e.edges.GetInt(base + edgeOffNodeA),
		nodeB:   e.edges.GetInt(base + edgeOffNodeB),
		linkA:   e.edges.GetInt(base + edgeOffLinkA),
		linkB:   e.edges.GetInt(base + edgeOffLinkB),
		distQ:   e.edges.GetInt(base + edgeOffDistQ),
		flags:   e.edges.GetInt(base + edgeOffFlags),
		geoRef:  e.edges.GetInt(base + edgeOffGeoRef),
		nameRef: e.edges.GetInt(base + edgeOffNameRef),
	}
}

// writeEdge is the single choke point for canonical orientation: if u > v,
// it swaps the endpoints, swaps the corresponding link fields, and applies
// SwapDirection to flags before writing. After return, nodeA(e) <= nodeB(e)
// always holds.
func (e *Engine) writeEdge(id, u, v, nextU, nextV, distQ, flags int32) {
	if u > v {
		u, v = v, u
		nextU, nextV = nextV, nextU
		flags = e.codec.SwapDirection(flags)
	}
	base := int64(id) * edgeRecordBytes
	e.edges.SetInt(base+edgeOffNodeA, u)
	e.edges.SetInt(base+edgeOffNodeB, v)
	e.edges.SetInt(base+edgeOffLinkA, nextU)
	e.edges.SetInt(base+edgeOffLinkB, nextV)
	e.edges.SetInt(base+edgeOffDistQ, distQ)
	e.edges.SetInt(base+edgeOffFlags, flags)
}

func (e *Engine) setEdgeGeoRef(id, geoRef int32) {
	e.edges.SetInt(int64(id)*edgeRecordBytes+edgeOffGeoRef, geoRef)
}

func (e *Engine) setEdgeNameRef(id, nameRef int32) {
	e.edges.SetInt(int64(id)*edgeRecordBytes+edgeOffNameRef, nameRef)
}

func (e *Engine) setEdgeDist(id, distQ int32) {
	e.edges.SetInt(int64(id)*edgeRecordBytes+edgeOffDistQ, distQ)
}

// otherNode returns the endpoint of rec that is not w.
func otherNode(rec edgeRecord, w int32) int32 {
	if rec.nodeA == w {
		return rec.nodeB
	}
	return rec.nodeA
}

// linkField returns the successor edge id stored for base's side of rec,
// given the other endpoint. The rule is purely structural: base picks
// link_a when base <= other, else link_b. Self-loops (base == other) always
// pick link_a.
func linkField(rec edgeRecord, base, other int32) int32 {
	if base <= other {
		return rec.linkA
	}
	return rec.linkB
}

// setLinkField writes newNext into base's link field on edge id, using the
// same selection rule as linkField.
func (e *Engine) setLinkField(id, base, other, newNext int32) {
	offset := edgeOffLinkB
	if base <= other {
		offset = edgeOffLinkA
	}
	e.edges.SetInt(int64(id)*edgeRecordBytes+int64(offset), newNext)
}

// AddEdge inserts a new edge between a and b with the given distance (in
// meters) and flags, splicing it at the head of each endpoint's adjacency
// list. Returns the new edge's stable id.
func (e *Engine) AddEdge(a, b int32, distanceMeters float64, flags int32) (int32, error) {
	start := time.Now()
	id, err := e.addEdge(a, b, distanceMeters, flags)
	if e.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		e.metrics.RecordEngineOperation("add_edge", status, time.Since(start))
	}
	return id, err
}

func (e *Engine) addEdge(a, b int32, distanceMeters float64, flags int32) (int32, error) {
	e.ensureNodeIndex(a)
	if b != a {
		e.ensureNodeIndex(b)
	}

	id := e.edgeCount
	next := id + 1
	if next < 0 {
		return 0, NewError("add_edge").Cause(ErrTooManyEdges).Err()
	}
	e.edgeCount = next
	needed := int64(e.edgeCount) * edgeRecordBytes
	if needed > e.edges.Capacity() {
		e.edges.IncCapacity(needed)
	}

	distQ := quantizeDistance(distanceMeters)
	e.writeEdge(id, a, b, NoEdge, NoEdge, distQ, flags)

	e.spliceHead(id, a, b)
	if a != b {
		e.spliceHead(id, b, a)
	}

	e.log.Debug("edge added", logFieldsEdge(id, a, b)...)
	return id, nil
}

// spliceHead inserts id at the head of base's adjacency chain, where other
// is the edge's opposite endpoint (used only to pick the right link field).
func (e *Engine) spliceHead(id, base, other int32) {
	prevHead := e.nodeEdgeRef(base)
	if prevHead != NoEdge {
		e.setLinkField(id, base, other, prevHead)
	}
	e.setNodeEdgeRef(base, id)
}
