package centralized

import (
	"time"

	"github.com/elektrokombinacija/mapf-cbs/internal/astar"
	"github.com/elektrokombinacija/mapf-cbs/internal/codec"
	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/ctnode"
	"github.com/elektrokombinacija/mapf-cbs/internal/pathbuf"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
)

// Worker is a stateless expander rank: it holds no OPEN and no incumbent of
// its own, just the problem instance needed to replan an agent (spec.md
// §4.4, "workers are stateless — they replan and report, nothing more").
type Worker struct {
	ep         *transport.Endpoint
	pool       *transport.AsyncSendPool
	inst       *core.ProblemInstance
	tMax       int
	llExpander []*transport.Endpoint // this worker's dedicated --ll-pool ranks, if any
}

// NewWorker builds a Worker bound to ep, reporting back to coordinator.
// llExpander is this worker's own --ll-pool sub-pool (spec.md §6): ranks no
// other worker ever addresses, so the worker may freely start and stop
// astar.RunExpander goroutines on them once per child replan.
func NewWorker(ep *transport.Endpoint, inst *core.ProblemInstance, llExpander []*transport.Endpoint) *Worker {
	return &Worker{
		ep:         ep,
		pool:       transport.NewAsyncSendPool(ep, 4),
		inst:       inst,
		tMax:       core.HorizonFor(inst.Map),
		llExpander: llExpander,
	}
}

// Run polls the coordinator for TAG_TASK and TAG_TERMINATE until told to
// stop.
func (w *Worker) Run(coordinator transport.Rank) {
	for {
		env, ok := w.ep.ProbeFrom(coordinator)
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		w.ep.RecvFrom(coordinator)

		switch env.Tag {
		case transport.TagTerminate:
			w.pool.WaitAll()
			return
		case transport.TagTask:
			node, incumbentCost := codec.Decode(env.Wire())
			w.processNode(coordinator, node, incumbentCost)
		}
	}
}

// processNode replans or splits node and reports the outcome to the
// coordinator: a TAG_SOLUTION if it is conflict-free, otherwise a
// TagChildCount followed by that many TAG_CHILDREN envelopes, in order, on
// the same source so the coordinator's pinned-source follow-up receive
// (spec.md §5) sees them correctly.
func (w *Worker) processNode(coordinator transport.Rank, node *ctnode.Node, incumbentCost int64) {
	c := conflict.Detect(node.Paths)
	if c == nil {
		wire := codec.Encode(node, 0)
		w.pool.SendAsync(coordinator, transport.WireEnvelope(transport.TagSolution, wire))
		return
	}

	children := w.childrenFor(node, c, int(incumbentCost))

	// The count must arrive before any child and must not be overtaken by
	// another task's reply, so it goes out as a blocking send rather than
	// through the pool: spec.md §5 reserves blocking sends for exactly this
	// "the next N messages from me are a unit" framing.
	w.ep.SendBlocking(coordinator, transport.Envelope{Tag: transport.TagChildCount, Count: int64(len(children))})
	for _, child := range children {
		wire := codec.Encode(child, int64(child.ParentID))
		w.ep.SendBlocking(coordinator, transport.WireEnvelope(transport.TagChildren, wire))
	}
}

// childrenFor generates parent's children exactly as ctnode.Children does,
// except each split agent's replan runs through astar.DistributedSolve over
// this worker's own --ll-pool ranks when it has any (spec.md §4.1,
// "Distributed variant (optional)"; original_source/src/parallel_a_star.c).
// With no ll-pool, this is ctnode.Children verbatim.
func (w *Worker) childrenFor(parent *ctnode.Node, c *conflict.Conflict, incumbentCost int) []*ctnode.Node {
	if len(w.llExpander) == 0 {
		return ctnode.Children(w.inst, parent, c, incumbentCost, w.tMax)
	}

	var out []*ctnode.Node
	for _, alpha := range []core.AgentID{c.AgentA, c.AgentB} {
		cs := parent.Constraints.Clone()
		cs.Append(ctnode.SplitConstraint(alpha, c, parent.Paths))

		res := w.solveDistributed(cs, alpha)
		if !res.Found {
			continue
		}

		paths := make([]pathbuf.Path, len(parent.Paths))
		for j, p := range parent.Paths {
			paths[j] = p.Clone()
		}
		paths[alpha] = res.Path

		cost := ctnode.SoC(paths)
		if cost >= incumbentCost {
			continue
		}

		out = append(out, &ctnode.Node{
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

// solveDistributed starts a fresh astar.RunExpander goroutine per ll-pool
// rank scoped to this one (alpha, cs) replan, runs DistributedSolve over
// them, then tears them down — cheap because these ranks are goroutines
// this worker owns exclusively, not OS processes.
func (w *Worker) solveDistributed(cs *constraint.Set, alpha core.AgentID) astar.Result {
	ranks := make([]transport.Rank, len(w.llExpander))
	for i, ep := range w.llExpander {
		ranks[i] = ep.Rank()
		go astar.RunExpander(ep, w.inst.Map, cs, alpha, w.ep.Rank())
	}
	defer func() {
		for _, r := range ranks {
			w.ep.SendBlocking(r, transport.Envelope{Tag: transport.TagLLTerminate})
		}
	}()
	return astar.DistributedSolve(w.ep, ranks, w.inst.Map, cs, alpha, w.inst.Starts[alpha], w.inst.Goals[alpha], w.tMax)
}
