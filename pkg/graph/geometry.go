package graph

// LatLon is a dequantized coordinate pair, used only at the geometry API
// boundary; the heap itself stores quantized int32 pairs.
type LatLon struct {
	Lat, Lon float64
}

// Geometry inclusion mode bits for FetchWayGeometry.
const (
	IncludeBase int = 1 << 0
	IncludeAdj  int = 1 << 1
)

// NextGeoRef allocates a contiguous range of nPairs*2+1 words in the
// geometry heap and returns the old high-water mark as the new geo_ref.
// The heap grows monotonically; ranges are never reclaimed.
func (e *Engine) NextGeoRef(nPairs int32) int32 {
	ref := e.maxGeoRef
	words := nPairs*2 + 1
	e.maxGeoRef += words
	needed := int64(e.maxGeoRef) * 4
	if needed > e.geo.Capacity() {
		e.geo.IncCapacity(needed)
	}
	return ref
}

func geoByteOffset(ref int32) int64 { return int64(ref) * 4 }

// SetWayGeometry stores points (the pillar nodes only, excluding both
// endpoints) for edgeID in canonical a->b order. If points is empty, the
// edge's geo_ref is cleared to 0. reverse indicates the caller supplied
// points walking from the node_b side, so they must be flipped before
// storage.
func (e *Engine) SetWayGeometry(edgeID int32, points []LatLon, reverse bool) {
	if len(points) == 0 {
		e.setEdgeGeoRef(edgeID, 0)
		return
	}
	ordered := points
	if reverse {
		ordered = reversePoints(points)
	}
	ref := e.NextGeoRef(int32(len(ordered)))
	off := geoByteOffset(ref)
	e.geo.SetInt(off, int32(len(ordered)))
	off += 4
	for _, p := range ordered {
		e.geo.SetInt(off, quantize(p.Lat))
		e.geo.SetInt(off+4, quantize(p.Lon))
		off += 8
	}
	e.setEdgeGeoRef(edgeID, ref)
}

// reverseStoredGeometry flips a pillar sequence in place (same word count,
// so no fresh allocation from the heap). Used by compaction when a node
// relabel flips an edge's endpoint ordering.
func (e *Engine) reverseStoredGeometry(geoRef int32) {
	if geoRef == 0 {
		return
	}
	pts := reversePoints(e.rawWayGeometry(geoRef))
	off := geoByteOffset(geoRef) + 4
	for _, p := range pts {
		e.geo.SetInt(off, quantize(p.Lat))
		e.geo.SetInt(off+4, quantize(p.Lon))
		off += 8
	}
}

// rawWayGeometry reads the stored pillar sequence for geoRef in its
// canonical (a->b) storage order, with no reversal or endpoint inclusion.
func (e *Engine) rawWayGeometry(geoRef int32) []LatLon {
	if geoRef == 0 {
		return nil
	}
	off := geoByteOffset(geoRef)
	n := e.geo.GetInt(off)
	off += 4
	pts := make([]LatLon, n)
	for i := int32(0); i < n; i++ {
		lat := dequantize(e.geo.GetInt(off))
		lon := dequantize(e.geo.GetInt(off + 4))
		pts[i] = LatLon{Lat: lat, Lon: lon}
		off += 8
	}
	return pts
}

func reversePoints(pts []LatLon) []LatLon {
	out := make([]LatLon, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// FetchWayGeometry returns the polyline for geoRef read from base to adj:
// when reverse is true the stored sequence is flipped, and mode's base/adj
// inclusion bits are applied after the flip so the result always reads
// base -> adj regardless of which side is canonical.
func (e *Engine) FetchWayGeometry(geoRef int32, reverse bool, mode int, base, adj int32) []LatLon {
	pts := e.rawWayGeometry(geoRef)
	if reverse {
		pts = reversePoints(pts)
	}
	baseCoord := LatLon{Lat: e.Latitude(base), Lon: e.Longitude(base)}
	adjCoord := LatLon{Lat: e.Latitude(adj), Lon: e.Longitude(adj)}

	out := make([]LatLon, 0, len(pts)+2)
	if mode&IncludeBase != 0 {
		out = append(out, baseCoord)
	}
	out = append(out, pts...)
	if mode&IncludeAdj != 0 {
		out = append(out, adjCoord)
	}
	return out
}
