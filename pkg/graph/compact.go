package graph

import (
	"sort"
	"time"

	"github.com/dd0wney/roadgraph/pkg/logging"
)

// Optimize consumes the pending removal set: it relocates tail nodes into
// the holes left by removed nodes, splices every touched adjacency chain to
// drop dangling links, and rewrites the endpoints of every edge that
// referenced a relocated node. Tombstoned edge slots are left in place;
// edge_count is unchanged. It is a no-op if nothing is pending.
func (e *Engine) Optimize() error {
	if len(e.removed) == 0 {
		return nil
	}
	start := time.Now()

	removedAscending := sortedKeys(e.removed)
	relabel := e.buildRelabelMap(removedAscending)

	touched, err := e.touchSetFromRemoved()
	if err != nil {
		return err
	}
	for v := range touched {
		if err := e.disconnectDeadEdges(v); err != nil {
			return err
		}
	}

	tails := sortedKeysInt32Map(relabel)
	for _, tail := range tails {
		e.copyNodeRecord(tail, relabel[tail])
	}

	if err := e.rewriteRelabeledEdges(relabel); err != nil {
		return err
	}

	removedCount := int32(len(e.removed))
	e.nodeCount -= removedCount
	e.removed = make(map[int32]struct{})

	if e.metrics != nil {
		e.metrics.RecordCompaction(time.Since(start), int(removedCount))
	}

	e.log.Debug("compaction complete", logFieldsCompaction(removedCount, e.nodeCount, time.Since(start))...)
	return nil
}

// buildRelabelMap walks removedAscending and a tail pointer from
// node_count-1 downward (skipping tail ids that are themselves removed),
// pairing each removed id with a surviving high id to relocate into its
// slot. Removed ids at or above the final tail position have no survivor
// to take their place; the node_count shrink alone accounts for them.
func (e *Engine) buildRelabelMap(removedAscending []int32) map[int32]int32 {
	relabel := make(map[int32]int32, len(removedAscending))
	tail := e.nodeCount - 1
	for _, removeNode := range removedAscending {
		for tail >= 0 {
			if _, isRemoved := e.removed[tail]; !isRemoved {
				break
			}
			tail--
		}
		if tail > removeNode {
			relabel[tail] = removeNode
			tail--
		}
	}
	return relabel
}

// touchSetFromRemoved walks every removed node's adjacency chain and
// collects the set of neighbors whose own chains must be re-spliced. A
// corrupt chain on a node about to be discarded entirely cannot affect the
// final graph, so outside debugChecks this logs and moves on rather than
// failing the whole compaction over dead state; debugChecks gates it the
// same way disconnectDeadEdges gates its own corrupt-chain case, so a debug
// build still surfaces the corruption instead of masking it.
func (e *Engine) touchSetFromRemoved() (map[int32]struct{}, error) {
	touched := make(map[int32]struct{})
	x := e.NewExplorer()
	for r := range e.removed {
		x.SetBaseNode(r)
		for {
			ok, err := x.Next(AcceptAll)
			if err != nil {
				if e.debugChecks {
					return nil, CorruptChainError("optimize.touchset", r)
				}
				e.log.Warn("corrupt chain on removed node during compaction",
					logging.Component("graph"), logging.NodeID(r), logging.Error(err))
				break
			}
			if !ok {
				break
			}
			touched[x.AdjNode()] = struct{}{}
		}
	}
	return touched, nil
}

// disconnectDeadEdges walks v's chain, splicing out every edge whose other
// endpoint is in the removal set and tombstoning it. prev tracks the link
// field that points at the current edge; NoEdge means "the head", i.e.
// v's edge_ref field itself.
func (e *Engine) disconnectDeadEdges(v int32) error {
	prev := NoEdge
	cur := e.nodeEdgeRef(v)
	steps := 0
	for cur != NoEdge {
		if steps++; steps > MaxEdges {
			return CorruptChainError("optimize.disconnect", v)
		}
		rec := e.readEdge(cur)
		if rec.nodeA == NoNode {
			if e.debugChecks {
				return CorruptChainError("optimize.disconnect", v)
			}
			e.log.Warn("encountered tombstone on a live chain during compaction",
				logging.Component("graph"), logging.NodeID(v), logging.EdgeID(cur))
			break
		}
		other := otherNode(rec, v)
		next := linkField(rec, v, other)

		if _, dead := e.removed[other]; dead {
			if prev == NoEdge {
				e.setNodeEdgeRef(v, next)
			} else {
				prevRec := e.readEdge(prev)
				e.setLinkField(prev, v, otherNode(prevRec, v), next)
			}
			e.edges.SetInt(int64(cur)*edgeRecordBytes+edgeOffNodeA, NoNode)
			cur = next
			continue
		}
		prev = cur
		cur = next
	}
	return nil
}

// rewriteRelabeledEdges walks the all-edges cursor once and rewrites every
// non-tombstone edge whose endpoint is in relabel's key set, restoring
// canonical orientation via writeEdge and mirroring geometry when the
// endpoint comparison's sign flips.
func (e *Engine) rewriteRelabeledEdges(relabel map[int32]int32) error {
	cursor := e.NewAllEdgesCursor()
	for cursor.Next() {
		id := cursor.EdgeID()
		rec := e.readEdge(id)

		updatedA, changedA := relabelOrIdentity(relabel, rec.nodeA)
		updatedB, changedB := relabelOrIdentity(relabel, rec.nodeB)
		if !changedA && !changedB {
			continue
		}

		wasAscending := rec.nodeA < rec.nodeB
		nowAscending := updatedA < updatedB
		e.writeEdge(id, updatedA, updatedB, rec.linkA, rec.linkB, rec.distQ, rec.flags)
		if wasAscending != nowAscending {
			e.reverseStoredGeometry(rec.geoRef)
		}
	}
	return nil
}

func relabelOrIdentity(relabel map[int32]int32, id int32) (int32, bool) {
	if v, ok := relabel[id]; ok {
		return v, true
	}
	return id, false
}

func (e *Engine) copyNodeRecord(src, dst int32) {
	buf := make([]byte, nodeRecordBytes)
	e.nodes.GetBytes(int64(src)*nodeRecordBytes, buf)
	e.nodes.SetBytes(int64(dst)*nodeRecordBytes, buf)
}

func sortedKeys(set map[int32]struct{}) []int32 {
	out := make([]int32, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeysInt32Map(m map[int32]int32) []int32 {
	out := make([]int32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
