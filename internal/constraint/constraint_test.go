package constraint

import (
	"testing"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

func TestSetViolatesVertex(t *testing.T) {
	s := NewSet()
	s.Append(Constraint{AgentID: 0, Time: 3, Kind: Vertex, Vertex: core.GridCoord{X: 1, Y: 1}})

	if !s.ViolatesVertex(0, core.GridCoord{X: 1, Y: 1}, 3) {
		t.Error("expected violation for matching agent/vertex/time")
	}
	if s.ViolatesVertex(1, core.GridCoord{X: 1, Y: 1}, 3) {
		t.Error("constraint should not apply to a different agent")
	}
	if s.ViolatesVertex(0, core.GridCoord{X: 1, Y: 1}, 4) {
		t.Error("constraint should not apply at a different time")
	}
}

func TestSetViolatesEdge(t *testing.T) {
	s := NewSet()
	from, to := core.GridCoord{X: 0, Y: 0}, core.GridCoord{X: 1, Y: 0}
	s.Append(Constraint{AgentID: 2, Time: 5, Kind: Edge, Vertex: from, EdgeTo: to})

	if !s.ViolatesEdge(2, from, to, 5) {
		t.Error("expected edge violation")
	}
	if s.ViolatesEdge(2, to, from, 5) {
		t.Error("the reverse transition should not be forbidden")
	}
}

func TestConstraintAppliesToNegativeAgentMeansAll(t *testing.T) {
	c := Constraint{AgentID: -1, Time: 0, Kind: Vertex, Vertex: core.GridCoord{}}
	if !c.AppliesTo(0) || !c.AppliesTo(7) {
		t.Error("a negative AgentID should apply to every agent")
	}
}

func TestSetCloneIsIndependent(t *testing.T) {
	s := NewSet()
	s.Append(Constraint{AgentID: 0, Time: 0, Kind: Vertex})
	clone := s.Clone()
	clone.Append(Constraint{AgentID: 1, Time: 1, Kind: Vertex})

	if s.Len() != 1 {
		t.Errorf("appending to the clone should not affect the original, got Len()=%d", s.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone should have 2 entries, got %d", clone.Len())
	}
}
