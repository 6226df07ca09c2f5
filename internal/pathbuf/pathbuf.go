// Package pathbuf implements AgentPath: an ordered sequence of grid cells
// with a wait-at-goal read extension, used as the per-agent plan inside a
// constraint-tree node.
package pathbuf

import "github.com/elektrokombinacija/mapf-cbs/internal/core"

// Path is an ordered sequence p[0..L) of grid cells. p[0] is the agent's
// start and p[L-1] its goal; AStarNode reconstruction guarantees both.
// Queries at t >= L return p[L-1] — the agent is done and waits at its
// goal. This is a pure read-time extension, not a padding mutation, so it
// never inflates the reported cost (len(Path) is always the true path
// length — spec.md Design Notes, "wait-at-goal semantics").
type Path []core.GridCoord

// At returns the agent's position at time t, extending the final cell
// forward for t beyond the path's length.
func (p Path) At(t int) core.GridCoord {
	if t < 0 {
		t = 0
	}
	if t >= len(p) {
		return p[len(p)-1]
	}
	return p[t]
}

// Len is the path length (the cost contribution of this agent to SoC).
func (p Path) Len() int { return len(p) }

// Clone returns an independent copy; CT node children copy parent paths
// before replanning one agent's entry.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}
