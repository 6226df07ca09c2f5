// Package constraint implements Constraint and ConstraintSet: the per-agent
// vertex/edge prohibitions a CT node's low-level replans must respect.
package constraint

import "github.com/elektrokombinacija/mapf-cbs/internal/core"

// Kind discriminates a Constraint's shape, encoded on the wire as a small
// integer discriminant (spec.md §6, §9 "tagged variants").
type Kind int

const (
	// Vertex forbids Agent from occupying Vertex at Time.
	Vertex Kind = 0
	// Edge forbids the transition Vertex -> EdgeTo over Time -> Time+1.
	Edge Kind = 1
)

// Constraint is a single prohibition. AgentID < 0 means "all agents" — the
// low level honors this but CBS splitting never produces it (spec.md §9,
// Open Question 3).
type Constraint struct {
	AgentID core.AgentID
	Time    int
	Kind    Kind
	Vertex  core.GridCoord
	EdgeTo  core.GridCoord
}

// AppliesTo reports whether c constrains agent.
func (c Constraint) AppliesTo(agent core.AgentID) bool {
	return c.AgentID < 0 || c.AgentID == agent
}

// ForbidsVertex reports whether occupying v at time t violates c for agent.
func (c Constraint) ForbidsVertex(agent core.AgentID, v core.GridCoord, t int) bool {
	if !c.AppliesTo(agent) || c.Kind != Vertex {
		return false
	}
	return c.Time == t && c.Vertex == v
}

// ForbidsEdge reports whether the move from -> to over t -> t+1 violates c
// for agent.
func (c Constraint) ForbidsEdge(agent core.AgentID, from, to core.GridCoord, t int) bool {
	if !c.AppliesTo(agent) || c.Kind != Edge {
		return false
	}
	return c.Time == t && c.Vertex == from && c.EdgeTo == to
}

// Set is an append-only ordered collection. Membership is checked linearly;
// spec.md explicitly does not require deduplication for correctness, and a
// CT node's constraint set is typically only a few dozen entries deep (one
// per ancestor split), so a slice scan is the right tool, not a map.
type Set struct {
	items []Constraint
}

// NewSet returns an empty constraint set.
func NewSet() *Set { return &Set{} }

// Append adds c, returning the set for chaining.
func (s *Set) Append(c Constraint) *Set {
	s.items = append(s.items, c)
	return s
}

// Clone returns an independent copy (a CT child clones its parent's set
// before appending the split constraint).
func (s *Set) Clone() *Set {
	out := &Set{items: make([]Constraint, len(s.items))}
	copy(out.items, s.items)
	return out
}

// Len reports how many constraints are in the set.
func (s *Set) Len() int { return len(s.items) }

// All returns the constraints in append order. Callers must not mutate the
// returned slice.
func (s *Set) All() []Constraint { return s.items }

// ViolatesVertex reports whether any constraint in the set forbids agent
// from occupying v at time t.
func (s *Set) ViolatesVertex(agent core.AgentID, v core.GridCoord, t int) bool {
	for _, c := range s.items {
		if c.ForbidsVertex(agent, v, t) {
			return true
		}
	}
	return false
}

// ViolatesEdge reports whether any constraint in the set forbids the
// transition from -> to over t -> t+1 for agent.
func (s *Set) ViolatesEdge(agent core.AgentID, from, to core.GridCoord, t int) bool {
	for _, c := range s.items {
		if c.ForbidsEdge(agent, from, to, t) {
			return true
		}
	}
	return false
}
