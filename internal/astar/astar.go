// Package astar implements ArenaAStar: constraint-respecting, time-expanded
// single-agent A* over (x, y, t) triples (spec.md §4.1). It is grounded on
// the teacher's SpaceTimeAStar (internal/algo/astar.go in the MAPF-HET
// solver), replacing that version's pointer-chained nodes and per-move
// linear constraint scan with the arena-of-indices layout and dense
// best-g dominance table spec.md prescribes.
package astar

import (
	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/minheap"
	"github.com/elektrokombinacija/mapf-cbs/internal/pathbuf"
)

// node is one entry in the search arena. parent is an index into the same
// arena, never a pointer — the whole arena is dropped as a single unit when
// Solve returns (spec.md Design Notes, "arena + indices for search graphs").
type node struct {
	pos    core.GridCoord
	g      int
	f      int
	time   int
	parent int // -1 for the root
}

// openItem is the minheap.Item pushed to OPEN: just enough to order by f
// without copying the whole node.
type openItem struct {
	arenaIdx int
	f        int
}

func (o openItem) Score() float64 { return float64(o.f) }

// Result carries the outcome of a Solve call.
type Result struct {
	Path  pathbuf.Path
	Found bool
	// Expanded counts nodes popped from OPEN and goal-tested; Generated
	// counts successor nodes admitted to the arena (pushed to OPEN), not
	// counting the start node. Both feed the
	// driver's reported statistics (spec.md §6, "nodes_expanded,
	// nodes_generated").
	Expanded  int
	Generated int
}

// Solve runs time-expanded A* for a single agent from start to goal,
// respecting every constraint in cs that applies to agent. tMax bounds the
// search horizon (core.HorizonFor computes the spec.md-mandated default).
func Solve(grid *core.GridMap, cs *constraint.Set, agent core.AgentID, start, goal core.GridCoord, tMax int) Result {
	w, h := grid.Width(), grid.Height()
	if !grid.InBounds(start) || !grid.InBounds(goal) {
		return Result{}
	}

	arena := make([]node, 0, 256)
	open := minheap.New[openItem]()

	// bestG[t*W*H + y*W + x] holds the minimum g seen for that state; a
	// dense table is safe here because h is consistent and every move
	// (including wait) costs exactly 1 (spec.md §4.1, "Dominance pruning").
	bestG := make([]int, tMax*w*h)
	for i := range bestG {
		bestG[i] = -1
	}
	stateIdx := func(c core.GridCoord, t int) int { return t*w*h + c.Y*w + c.X }

	push := func(pos core.GridCoord, g, t, parent int) {
		if t >= tMax {
			return
		}
		idx := stateIdx(pos, t)
		if bestG[idx] != -1 && bestG[idx] <= g {
			return
		}
		bestG[idx] = g
		arena = append(arena, node{pos: pos, g: g, f: g + core.ManhattanDistance(pos, goal), time: t, parent: parent})
		open.Push(openItem{arenaIdx: len(arena) - 1, f: arena[len(arena)-1].f})
	}

	push(start, 0, 0, -1)

	var res Result
	safetyBound := w * h * tMax
	nbrBuf := make([]core.GridCoord, 0, 5)

	for open.Len() > 0 {
		if open.Len() > safetyBound {
			return res
		}
		item := open.Pop()
		cur := arena[item.arenaIdx]
		res.Expanded++

		if cur.pos == goal {
			res.Path = reconstruct(arena, item.arenaIdx)
			res.Found = true
			return res
		}

		if cur.time+1 >= tMax {
			continue
		}
		nextT := cur.time + 1

		nbrBuf = grid.Neighbors(cur.pos, nbrBuf[:0])

		for i, dest := range nbrBuf {
			isWait := i == len(nbrBuf)-1 // Neighbors appends the wait move last
			if !grid.InBounds(dest) {
				continue
			}
			if !isWait && grid.IsObstacle(dest) {
				continue
			}
			if cs.ViolatesVertex(agent, dest, nextT) {
				continue
			}
			if cs.ViolatesEdge(agent, cur.pos, dest, cur.time) {
				continue
			}
			before := len(arena)
			push(dest, cur.g+1, nextT, item.arenaIdx)
			if len(arena) > before {
				res.Generated++
			}
		}
	}

	return res
}

// reconstruct walks parent indices from the goal node back to the root,
// writing positions back-to-front into a path of length t_goal+1.
func reconstruct(arena []node, goalIdx int) pathbuf.Path {
	n := arena[goalIdx]
	path := make(pathbuf.Path, n.time+1)
	idx := goalIdx
	for idx != -1 {
		cur := arena[idx]
		path[cur.time] = cur.pos
		idx = cur.parent
	}
	return path
}
