package codec

import (
	"testing"

	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/ctnode"
	"github.com/elektrokombinacija/mapf-cbs/internal/pathbuf"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cs := constraint.NewSet()
	cs.Append(constraint.Constraint{AgentID: 0, Time: 2, Kind: constraint.Vertex, Vertex: core.GridCoord{X: 1, Y: 1}})
	cs.Append(constraint.Constraint{AgentID: 1, Time: 3, Kind: constraint.Edge, Vertex: core.GridCoord{X: 0, Y: 0}, EdgeTo: core.GridCoord{X: 1, Y: 0}})

	n := &ctnode.Node{
		ID:          7,
		ParentID:    3,
		Depth:       2,
		Cost:        11,
		Constraints: cs,
		Paths: []pathbuf.Path{
			{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
			{{X: 0, Y: 1}, {X: 0, Y: 1}},
		},
	}

	w := Encode(n, 42)
	header := w.Header()
	w2 := FromHeader(header)
	w2.Cost = w.Cost
	w2.PathInts = w.PathInts
	w2.ConstraintInts = w.ConstraintInts

	decoded, aux := Decode(w2)
	if aux != 42 {
		t.Errorf("aux value = %d, want 42", aux)
	}
	if decoded.ID != n.ID || decoded.ParentID != n.ParentID || decoded.Depth != n.Depth || decoded.Cost != n.Cost {
		t.Errorf("scalar fields did not round-trip: got %+v", decoded)
	}
	if len(decoded.Paths) != len(n.Paths) {
		t.Fatalf("got %d paths, want %d", len(decoded.Paths), len(n.Paths))
	}
	for i := range n.Paths {
		if len(decoded.Paths[i]) != len(n.Paths[i]) {
			t.Fatalf("path %d length = %d, want %d", i, len(decoded.Paths[i]), len(n.Paths[i]))
		}
		for j := range n.Paths[i] {
			if decoded.Paths[i][j] != n.Paths[i][j] {
				t.Errorf("path %d cell %d = %v, want %v", i, j, decoded.Paths[i][j], n.Paths[i][j])
			}
		}
	}
	if decoded.Constraints.Len() != cs.Len() {
		t.Fatalf("got %d constraints, want %d", decoded.Constraints.Len(), cs.Len())
	}
	for i, c := range cs.All() {
		got := decoded.Constraints.All()[i]
		if got != c {
			t.Errorf("constraint %d = %+v, want %+v", i, got, c)
		}
	}
}
