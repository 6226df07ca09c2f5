package core

import "fmt"

// AgentID identifies an agent within a ProblemInstance. Agent IDs are dense,
// 0-based indices into Starts/Goals. A negative AgentID in a Constraint means
// "all agents" (honored by the low level, never produced by CBS splitting —
// see spec.md §3 and the Open Questions in §9).
type AgentID int

// ProblemInstance is the read-only input to every search mode: a map plus a
// set of agent start/goal pairs. It is immutable once built, mirroring
// GridMap's own "immutable after construction" invariant, which is what lets
// every rank in a transport.Group share a single *ProblemInstance safely.
type ProblemInstance struct {
	Map    *GridMap
	Starts []GridCoord
	Goals  []GridCoord
}

// NumAgents returns the agent count.
func (p *ProblemInstance) NumAgents() int { return len(p.Starts) }

// MaxAgents is the upper bound on agent count spec.md §5 documents.
const MaxAgents = 40

// Validate checks the structural invariants a loaded instance must satisfy
// before any solver touches it: matching start/goal counts, agent count
// within the documented bound, and every start/goal cell free and in
// bounds.
func (p *ProblemInstance) Validate() error {
	if len(p.Starts) != len(p.Goals) {
		return fmt.Errorf("core: %d starts but %d goals", len(p.Starts), len(p.Goals))
	}
	n := len(p.Starts)
	if n < 1 || n > MaxAgents {
		return fmt.Errorf("core: agent count %d out of range [1,%d]", n, MaxAgents)
	}
	for i := 0; i < n; i++ {
		if !p.Map.InBounds(p.Starts[i]) || p.Map.IsObstacle(p.Starts[i]) {
			return fmt.Errorf("core: agent %d start %v is out of bounds or obstructed", i, p.Starts[i])
		}
		if !p.Map.InBounds(p.Goals[i]) || p.Map.IsObstacle(p.Goals[i]) {
			return fmt.Errorf("core: agent %d goal %v is out of bounds or obstructed", i, p.Goals[i])
		}
	}
	return nil
}

// MaxPathLength is the floor on the time-expanded A* horizon T_max
// (spec.md §4.1): max(W*H*4, MaxPathLength).
const MaxPathLength = 4096

// HorizonFor computes T_max for a given map, per spec.md §4.1.
func HorizonFor(m *GridMap) int {
	bound := m.Width() * m.Height() * 4
	if bound < MaxPathLength {
		return MaxPathLength
	}
	return bound
}
