// Package conflict implements ConflictDetector: finding the first pairwise
// collision between two agents' paths in a CT node, per spec.md §4.2. It is
// grounded directly on the teacher's FindFirstConflict (internal/algo in the
// MAPF-HET solver), adapted from that solver's continuous-time, map[AgentID]
// representation to this one's discrete-time, dense-array representation.
package conflict

import (
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/pathbuf"
)

// Kind mirrors constraint.Kind but names the conflict's own shape; kept as a
// separate type because a Conflict and the Constraint it generates are
// related but distinct records (spec.md §3 vs §4.3).
type Kind int

const (
	VertexConflict Kind = 0
	EdgeConflict   Kind = 1
)

// Conflict is the first pairwise disagreement between two agents' paths.
type Conflict struct {
	AgentA, AgentB core.AgentID
	Time           int
	Kind           Kind
	Position       core.GridCoord // vertex conflict: the shared cell; edge conflict: A's cell at Time
	EdgeTo         core.GridCoord // edge conflict only: A's cell at Time+1 (== B's cell at Time)
}

// Detect scans times t = 0..Tmax (inclusive of the longest path's final
// index) and agent pairs (a<b) with the outer loop on t, so the first
// conflict found is deterministically the earliest conflict, and the
// lowest-indexed pair at that time (spec.md §4.2). Returns nil if paths has
// no conflicts.
func Detect(paths []pathbuf.Path) *Conflict {
	tMax := 0
	for _, p := range paths {
		if p.Len() > tMax {
			tMax = p.Len()
		}
	}
	if tMax == 0 {
		return nil
	}

	for t := 0; t < tMax; t++ {
		for a := 0; a < len(paths); a++ {
			for b := a + 1; b < len(paths); b++ {
				if c := checkPair(core.AgentID(a), core.AgentID(b), paths[a], paths[b], t); c != nil {
					return c
				}
			}
		}
	}
	return nil
}

func checkPair(a, b core.AgentID, pa, pb pathbuf.Path, t int) *Conflict {
	aCurr, bCurr := pa.At(t), pb.At(t)
	if aCurr == bCurr {
		return &Conflict{AgentA: a, AgentB: b, Time: t, Kind: VertexConflict, Position: aCurr}
	}
	aNext, bNext := pa.At(t+1), pb.At(t+1)
	if aCurr == bNext && bCurr == aNext {
		return &Conflict{AgentA: a, AgentB: b, Time: t, Kind: EdgeConflict, Position: aCurr, EdgeTo: aNext}
	}
	return nil
}

// DetectAll returns every conflict at every (t, pair), in the same
// deterministic scan order as Detect. Not used by the search loop itself
// (which only needs the first conflict) but useful for diagnostics and for
// the property tests validating Testable Property 4 of spec.md §8.
func DetectAll(paths []pathbuf.Path) []*Conflict {
	tMax := 0
	for _, p := range paths {
		if p.Len() > tMax {
			tMax = p.Len()
		}
	}
	var out []*Conflict
	if tMax == 0 {
		return out
	}
	for t := 0; t < tMax; t++ {
		for a := 0; a < len(paths); a++ {
			for b := a + 1; b < len(paths); b++ {
				if c := checkPair(core.AgentID(a), core.AgentID(b), paths[a], paths[b], t); c != nil {
					out = append(out, c)
				}
			}
		}
	}
	return out
}
