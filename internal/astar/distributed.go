package astar

import (
	"time"

	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/minheap"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
)

// pollInterval mirrors the idle-poll cadence internal/centralized and
// internal/decentralized use for their own probe loops.
const pollInterval = 200 * time.Microsecond

// RunExpander is the low-level neighbor-expansion worker loop spec.md §4.1's
// "Distributed variant (optional)" describes: it holds no search state of
// its own, just the grid and constraint set, and answers TAG_LL_TASK
// requests with the neighbors of one (x, y, g, t) state until told to stop.
// This lets a --ll-pool of ranks share the neighbor-generation work of a
// single agent's replan, grounded on original_source/src/parallel_a_star.c
// (SPEC_FULL.md §5). One RunExpander call serves exactly one agent's one
// replan: agent and cs are fixed for its whole loop, matching how
// centralized.Worker spins a fresh expander goroutine per split rather than
// reusing one across different constraint sets. The heuristic term is left
// to the caller (DistributedSolve already knows the goal); RunExpander
// reports raw (x, y, g, t) neighbor state.
func RunExpander(ep *transport.Endpoint, grid *core.GridMap, cs *constraint.Set, agent core.AgentID, source transport.Rank) {
	for {
		env, ok := ep.ProbeFrom(source)
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		ep.RecvFrom(source)

		if env.Tag == transport.TagLLTerminate {
			return
		}

		nodeIdx, x, y, g, taskT := env.LLTask[0], env.LLTask[1], env.LLTask[2], env.LLTask[3], env.LLTask[4]
		pos := core.GridCoord{X: int(x), Y: int(y)}
		t := int(taskT)
		nextG := g + 1
		nextT := t + 1

		// result is [from_node_index, neighbor_count, then neighbor_count
		// groups of (x, y, g, t)] exactly as spec.md §6 fixes it.
		result := make([]int64, 0, 2+4*5)
		result = append(result, nodeIdx, 0)

		count := int64(0)
		nbrBuf := grid.Neighbors(pos, make([]core.GridCoord, 0, 5))

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
			if cs.ViolatesEdge(agent, pos, dest, t) {
				continue
			}
			result = append(result, int64(dest.X), int64(dest.Y), nextG, int64(nextT))
			count++
		}
		result[1] = count

		ep.SendBlocking(source, transport.Envelope{Tag: transport.TagLLResult, LLResult: result})
	}
}

// DistributedSolve runs time-expanded A* identically to Solve, but delegates
// each popped node's neighbor generation to one of the given expander ranks
// in round-robin, round-tripping a TAG_LL_TASK/TAG_LL_RESULT pair per
// expansion. It exists to exercise the optional distributed low-level
// variant of spec.md §4.1; Solve remains the default path because a single
// in-process call is strictly faster when no network boundary separates the
// expanders from the searcher.
func DistributedSolve(ep *transport.Endpoint, expanders []transport.Rank, grid *core.GridMap, cs *constraint.Set, agent core.AgentID, start, goal core.GridCoord, tMax int) Result {
	if len(expanders) == 0 {
		return Solve(grid, cs, agent, start, goal, tMax)
	}

	w := grid.Width()
	arena := make([]node, 0, 256)
	open := minheap.New[openItem]()

	bestG := make([]int, tMax*w*grid.Height())
	for i := range bestG {
		bestG[i] = -1
	}
	stateIdx := func(c core.GridCoord, t int) int { return t*w*grid.Height() + c.Y*w + c.X }

	admit := func(pos core.GridCoord, g, t, parent int) {
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

	admit(start, 0, 0, -1)

	var res Result
	safetyBound := w * grid.Height() * tMax
	rr := 0

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

		dst := expanders[rr%len(expanders)]
		rr++
		ep.SendBlocking(dst, transport.Envelope{Tag: transport.TagLLTask, LLTask: [5]int64{int64(item.arenaIdx), int64(cur.pos.X), int64(cur.pos.Y), int64(cur.g), int64(cur.time)}})
		reply := ep.RecvFrom(dst)

		count := int(reply.LLResult[1])
		for i := 0; i < count; i++ {
			base := 2 + i*4
			pos := core.GridCoord{X: int(reply.LLResult[base]), Y: int(reply.LLResult[base+1])}
			before := len(arena)
			admit(pos, cur.g+1, cur.time+1, item.arenaIdx)
			if len(arena) > before {
				res.Generated++
			}
		}
	}

	return res
}
