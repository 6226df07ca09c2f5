// Package codec implements NodeCodec: (de)serialization of a constraint-tree
// node to the flat integer+double wire payload of spec.md §6, grounded on
// original_source/include/serialization.h and src/serialization.c (the
// danwein8/ParallelCBS C implementation this module's spec was distilled
// from) rather than on the teacher, which has no wire format of its own
// (single-process, in-memory cbsNode only).
package codec

import (
	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/ctnode"
	"github.com/elektrokombinacija/mapf-cbs/internal/pathbuf"
)

// Wire is the four-message payload spec.md §6 assigns to a serialized CT
// node: an 8-int header, a cost double, an optional path-int block, and an
// optional constraint-int block. AuxValue carries the coordinator's
// incumbent cost on TAG_TASK, or the parent's id on a TAG_CHILDREN reply
// (spec.md §6, "aux_value convention").
type Wire struct {
	ID               int64
	ParentID         int64
	Depth            int64
	NumAgents        int64
	ConstraintCount  int64
	PathIntCount     int64
	ConstraintIntCnt int64
	AuxValue         int64
	Cost             float64
	PathInts         []int64
	ConstraintInts   []int64
}

// Header returns the 8-integer header message, in the order spec.md §6
// fixes: [id, parent_id, depth, num_agents, constraint_count,
// path_int_count, constraint_int_count, aux_value].
func (w Wire) Header() [8]int64 {
	return [8]int64{w.ID, w.ParentID, w.Depth, w.NumAgents, w.ConstraintCount, w.PathIntCount, w.ConstraintIntCnt, w.AuxValue}
}

// FromHeader reconstructs the scalar fields of a Wire from a received
// header message; the caller still owes it the cost double and any
// path/constraint int blocks the header's counts promise.
func FromHeader(h [8]int64) Wire {
	return Wire{ID: h[0], ParentID: h[1], Depth: h[2], NumAgents: h[3], ConstraintCount: h[4], PathIntCount: h[5], ConstraintIntCnt: h[6], AuxValue: h[7]}
}

// Encode flattens n into a Wire carrying auxValue.
func Encode(n *ctnode.Node, auxValue int64) Wire {
	w := Wire{
		ID:              n.ID,
		ParentID:        n.ParentID,
		Depth:           int64(n.Depth),
		NumAgents:       int64(len(n.Paths)),
		ConstraintCount: int64(n.Constraints.Len()),
		Cost:            float64(n.Cost),
		AuxValue:        auxValue,
	}

	for _, p := range n.Paths {
		w.PathInts = append(w.PathInts, int64(p.Len()))
		for _, c := range p {
			w.PathInts = append(w.PathInts, int64(c.X), int64(c.Y))
		}
	}
	w.PathIntCount = int64(len(w.PathInts))

	for _, c := range n.Constraints.All() {
		w.ConstraintInts = append(w.ConstraintInts,
			int64(c.AgentID), int64(c.Time), int64(c.Kind),
			int64(c.Vertex.X), int64(c.Vertex.Y),
			int64(c.EdgeTo.X), int64(c.EdgeTo.Y))
	}
	w.ConstraintIntCnt = int64(len(w.ConstraintInts))

	return w
}

// Decode reconstructs a *ctnode.Node (and the carried aux value) from a
// Wire whose PathInts/ConstraintInts slices are already populated to match
// its header's counts.
func Decode(w Wire) (*ctnode.Node, int64) {
	n := &ctnode.Node{
		ID:       w.ID,
		ParentID: w.ParentID,
		Depth:    int(w.Depth),
		Cost:     int(w.Cost),
	}

	cs := constraint.NewSet()
	for i := int64(0); i < w.ConstraintCount; i++ {
		base := i * 7
		cs.Append(constraint.Constraint{
			AgentID: core.AgentID(w.ConstraintInts[base]),
			Time:    int(w.ConstraintInts[base+1]),
			Kind:    constraint.Kind(w.ConstraintInts[base+2]),
			Vertex:  core.GridCoord{X: int(w.ConstraintInts[base+3]), Y: int(w.ConstraintInts[base+4])},
			EdgeTo:  core.GridCoord{X: int(w.ConstraintInts[base+5]), Y: int(w.ConstraintInts[base+6])},
		})
	}
	n.Constraints = cs

	paths := make([]pathbuf.Path, w.NumAgents)
	pos := 0
	for i := range paths {
		length := int(w.PathInts[pos])
		pos++
		p := make(pathbuf.Path, length)
		for j := 0; j < length; j++ {
			p[j] = core.GridCoord{X: int(w.PathInts[pos]), Y: int(w.PathInts[pos+1])}
			pos += 2
		}
		paths[i] = p
	}
	n.Paths = paths

	return n, w.AuxValue
}
