// Package ctnode implements HighLevelNode (the constraint-tree node shared
// by every execution mode) and the CBS expansion step of spec.md §4.3: root
// construction, conflict-driven splitting, and replanning. It is grounded
// on the teacher's cbsNode/CBS.Solve (internal/algo/cbs.go in the MAPF-HET
// solver), generalized from that solver's single-process container/heap
// loop to a pure node-transition function any of the three execution modes
// can call.
package ctnode

import (
	"github.com/elektrokombinacija/mapf-cbs/internal/astar"
	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/pathbuf"
)

// Node is a constraint-tree node: a constraint set plus a joint plan
// consistent with it. Cost is the sum-of-costs (SoC) objective.
type Node struct {
	ID          int64
	ParentID    int64
	Depth       int
	Cost        int
	Constraints *constraint.Set
	Paths       []pathbuf.Path
}

// Score implements minheap.Item so a Node can sit directly in a cost-keyed
// OPEN heap.
func (n *Node) Score() float64 { return float64(n.Cost) }

// SoC sums path lengths — the CBS objective (spec.md §3).
func SoC(paths []pathbuf.Path) int {
	total := 0
	for _, p := range paths {
		total += p.Len()
	}
	return total
}

// PlanAll runs ArenaAStar for every agent under cs, writing into paths (must
// already be sized NumAgents). Returns false if any agent fails to replan —
// the caller discards the whole node (spec.md §4.3, §7 "Infeasible child").
func PlanAll(inst *core.ProblemInstance, cs *constraint.Set, paths []pathbuf.Path, tMax int) bool {
	for i := 0; i < inst.NumAgents(); i++ {
		agent := core.AgentID(i)
		res := astar.Solve(inst.Map, cs, agent, inst.Starts[i], inst.Goals[i], tMax)
		if !res.Found {
			return false
		}
		paths[i] = res.Path
	}
	return true
}

// Root builds the CBS root node: empty constraints, one A* call per agent.
// The id parameter is the id the admitting peer assigns (spec.md §3, "id is
// assigned monotonically by whichever peer admits the node").
func Root(inst *core.ProblemInstance, id int64, tMax int) (*Node, bool) {
	cs := constraint.NewSet()
	paths := make([]pathbuf.Path, inst.NumAgents())
	if !PlanAll(inst, cs, paths, tMax) {
		return nil, false
	}
	return &Node{ID: id, ParentID: -1, Depth: 0, Constraints: cs, Paths: paths, Cost: SoC(paths)}, true
}

// SplitConstraint builds the constraint a child adds for agent `alpha`, per
// spec.md §4.3. Exported so centralized.Worker can reuse it when it needs
// to replan a split agent itself (the --ll-pool distributed low-level path)
// instead of going through Children.
func SplitConstraint(alpha core.AgentID, c *conflict.Conflict, paths []pathbuf.Path) constraint.Constraint {
	if c.Kind == conflict.VertexConflict {
		return constraint.Constraint{AgentID: alpha, Time: c.Time, Kind: constraint.Vertex, Vertex: c.Position, EdgeTo: c.Position}
	}
	// Edge conflict.
	if alpha == c.AgentA {
		return constraint.Constraint{AgentID: alpha, Time: c.Time, Kind: constraint.Edge, Vertex: c.Position, EdgeTo: c.EdgeTo}
	}
	// Mirrored transition for the other agent (spec.md §4.3).
	from, to := paths[alpha].At(c.Time), paths[alpha].At(c.Time+1)
	return constraint.Constraint{AgentID: alpha, Time: c.Time, Kind: constraint.Edge, Vertex: from, EdgeTo: to}
}

// Children generates the (at most two) children of parent for the given
// conflict. Returned nodes carry ID 0 — per spec.md §3 an id is assigned
// monotonically by whichever peer admits the node to its OPEN, which may be
// a different peer than the one that generated it, so Children leaves that
// assignment to the caller. A child is omitted if its agent fails to
// replan, or if its cost would not improve on incumbentCost (spec.md §4.3,
// "Pruned child"). incumbentCost may be math.MaxInt to disable pruning.
func Children(inst *core.ProblemInstance, parent *Node, c *conflict.Conflict, incumbentCost int, tMax int) []*Node {
	var out []*Node
	for _, alpha := range []core.AgentID{c.AgentA, c.AgentB} {
		cs := parent.Constraints.Clone()
		cs.Append(SplitConstraint(alpha, c, parent.Paths))

		paths := make([]pathbuf.Path, len(parent.Paths))
		for j, p := range parent.Paths {
			paths[j] = p.Clone()
		}

		res := astar.Solve(inst.Map, cs, alpha, inst.Starts[alpha], inst.Goals[alpha], tMax)
		if !res.Found {
			continue
		}
		paths[alpha] = res.Path

		cost := SoC(paths)
		if cost >= incumbentCost {
			continue
		}

		out = append(out, &Node{
			ID:          0,
			ParentID:    parent.ID,
			Depth:       parent.Depth + 1,
			Cost:        cost,
			Constraints: cs,
			Paths:       paths,
		})
	}
	return out
}
