package graph

// ensureNodeIndex grows node_count to i+1 if needed, writing NO_EDGE into
// every freshly revealed edge_ref slot from the previous node_count up to
// the new node_count. Capacity growth itself is delegated to the Directory.
func (e *Engine) ensureNodeIndex(i int32) {
	if i < e.nodeCount {
		return
	}
	newCount := i + 1
	needed := int64(newCount) * nodeRecordBytes
	if needed > e.nodes.Capacity() {
		e.nodes.IncCapacity(needed)
	}
	for n := e.nodeCount; n < newCount; n++ {
		e.nodes.SetInt(int64(n)*nodeRecordBytes+nodeOffEdgeRef, NoEdge)
	}
	e.nodeCount = newCount
}

// SetNode stores (lat, lon) for node i, growing capacity and expanding the
// bounding box monotonically. Overwriting a pre-existing node is not an
// error.
func (e *Engine) SetNode(i int32, lat, lon float64) {
	e.ensureNodeIndex(i)

	base := int64(i) * nodeRecordBytes
	e.nodes.SetInt(base+nodeOffLatQ, quantize(lat))
	e.nodes.SetInt(base+nodeOffLonQ, quantize(lon))

	if lat < e.bbox.MinLat {
		e.bbox.MinLat = lat
	}
	if lat > e.bbox.MaxLat {
		e.bbox.MaxLat = lat
	}
	if lon < e.bbox.MinLon {
		e.bbox.MinLon = lon
	}
	if lon > e.bbox.MaxLon {
		e.bbox.MaxLon = lon
	}
}

// Latitude returns the dequantized latitude of node i. The caller must
// respect NodeCount(); out-of-range ids are undefined at the contract
// level.
func (e *Engine) Latitude(i int32) float64 {
	return dequantize(e.nodes.GetInt(int64(i)*nodeRecordBytes + nodeOffLatQ))
}

// Longitude returns the dequantized longitude of node i.
func (e *Engine) Longitude(i int32) float64 {
	return dequantize(e.nodes.GetInt(int64(i)*nodeRecordBytes + nodeOffLonQ))
}

func (e *Engine) nodeEdgeRef(i int32) int32 {
	return e.nodes.GetInt(int64(i)*nodeRecordBytes + nodeOffEdgeRef)
}

func (e *Engine) setNodeEdgeRef(i, edgeRef int32) {
	e.nodes.SetInt(int64(i)*nodeRecordBytes+nodeOffEdgeRef, edgeRef)
}

// MarkNodeRemoved adds i to the pending removal set, consumed by Optimize.
// It does not itself touch any edge or node record.
func (e *Engine) MarkNodeRemoved(i int32) {
	e.removed[i] = struct{}{}
}

// PendingRemovals reports how many nodes are queued for the next Optimize.
func (e *Engine) PendingRemovals() int {
	return len(e.removed)
}
