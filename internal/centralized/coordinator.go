// Package centralized implements the coordinator/worker-pool execution mode
// of spec.md §2(b)/§4.4: rank 0 owns OPEN and the incumbent, and the worker
// ranks passed to NewCoordinator are stateless expanders. It is grounded on the teacher's CBS.Solve
// (internal/algo/cbs.go) for the high-level loop shape, generalized to
// dispatch each popped node over internal/transport instead of expanding it
// in-process, and on original_source/src/coordinator.c for the drain-phase
// shutdown sequence SPEC_FULL.md §5 calls for.
package centralized

import (
	"math"
	"time"

	"github.com/elektrokombinacija/mapf-cbs/internal/codec"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/ctnode"
	"github.com/elektrokombinacija/mapf-cbs/internal/minheap"
	"github.com/elektrokombinacija/mapf-cbs/internal/result"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
)

// plateauEpsilon is the cost-tie tolerance used to batch same-cost nodes for
// dispatch, matching the teacher's float-cost OPEN (spec.md §4.4, "pop the
// minimum-cost node, plus any other node within epsilon of it").
const plateauEpsilon = 1e-6

// drainGrace bounds how long the coordinator waits for stragglers to reply
// after it has decided to stop, before broadcasting TAG_TERMINATE
// unconditionally (original_source/src/coordinator.c's shutdown grace
// period, SPEC_FULL.md §5).
const drainGrace = 5 * time.Second

// pollInterval is how long the coordinator sleeps between non-blocking
// probes of idle workers (spec.md §5, "probe, and if nothing is pending,
// sleep briefly before probing again").
const pollInterval = 200 * time.Microsecond

// Options configures a centralized run.
type Options struct {
	Timeout time.Duration
}

// Coordinator is rank 0 of a centralized Group: it owns OPEN, the id
// generator, and the incumbent.
type Coordinator struct {
	ep      *transport.Endpoint
	pool    *transport.AsyncSendPool
	workers []transport.Rank
}

// NewCoordinator builds a Coordinator bound to ep, dispatching CT-node tasks
// to exactly the given CBS-worker ranks. Callers pass only the ranks
// running centralized.Worker — never a worker's own --ll-pool expander sub-
// ranks, which only their owning worker may address (spec.md §6,
// "--ll-pool M").
func NewCoordinator(ep *transport.Endpoint, workers []transport.Rank) *Coordinator {
	return &Coordinator{
		ep:      ep,
		pool:    transport.NewAsyncSendPool(ep, len(workers)*4),
		workers: workers,
	}
}

// Run drives the centralized CBS search to completion, timeout, or OPEN
// exhaustion, dispatching node expansions to the worker pool.
func (co *Coordinator) Run(inst *core.ProblemInstance, opts Options) result.Run {
	start := time.Now()
	tMax := core.HorizonFor(inst.Map)

	var nextID int64
	root, ok := ctnode.Root(inst, nextID, tMax)
	if !ok {
		return result.Run{Cost: -1, Status: result.Failure, RuntimeSec: time.Since(start).Seconds()}
	}
	nextID++

	open := minheap.New[*ctnode.Node]()
	open.Push(root)

	incumbent := (*ctnode.Node)(nil)
	incumbentCost := math.MaxInt
	expanded, generated, conflicts := 0, 0, 0
	pending := 0 // nodes dispatched to workers awaiting a reply

	deadline := time.Time{}
	if opts.Timeout > 0 {
		deadline = start.Add(opts.Timeout)
	}

	rr := 0 // round-robin cursor over co.workers
	timedOut := false

	for open.Len() > 0 || pending > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			timedOut = true
			break
		}

		// Dispatch one cost plateau: the minimum-cost node plus every other
		// OPEN node within plateauEpsilon of it, nothing beyond. Mixing a
		// later, higher-cost plateau into the same dispatch would let its
		// children lower the incumbent before this plateau's own children
		// are accounted for, breaking the best-first termination proof
		// (spec.md §4.3/§4.4/§9).
		dispatched := false
		if open.Len() > 0 {
			if incumbent != nil && open.Peek().Score() >= float64(incumbentCost) {
				// The rest of OPEN cannot beat the incumbent; drop it
				// rather than dispatch dead work.
				for open.Len() > 0 {
					open.Pop()
				}
			} else {
				minScore := open.Peek().Score()
				for open.Len() > 0 && open.Peek().Score() <= minScore+plateauEpsilon {
					if incumbent != nil && open.Peek().Score() >= float64(incumbentCost) {
						break
					}
					node := open.Pop()
					dst := co.workers[rr%len(co.workers)]
					rr++
					w := codec.Encode(node, int64(clampCost(incumbentCost)))
					co.pool.SendAsync(dst, transport.WireEnvelope(transport.TagTask, w))
					pending++
					expanded++
					dispatched = true
				}
			}
		}

		if !dispatched && pending == 0 {
			break
		}

		// Block until every reply from this plateau's dispatch is back
		// before the outer loop pops the next one, but don't ignore the
		// deadline while doing it.
		for pending > 0 {
			if !deadline.IsZero() && time.Now().After(deadline) {
				timedOut = true
				break
			}
			incumbent, incumbentCost, generated, conflicts, pending, nextID =
				co.drainOnce(incumbent, incumbentCost, generated, conflicts, pending, nextID, open)
		}
		if timedOut {
			break
		}
	}

	if timedOut {
		co.drainStragglers(pending)
		co.broadcastTerminate()
		return finish(incumbent, expanded, generated, conflicts, start, result.Timeout)
	}

	co.broadcastTerminate()

	status := result.Success
	if incumbent == nil {
		status = result.Failure
	}
	return finish(incumbent, expanded, generated, conflicts, start, status)
}

// drainOnce polls every worker once, applies whatever replies are pending,
// and sleeps briefly if nothing was found — spec.md §5's probe-then-sleep
// idle pattern.
func (co *Coordinator) drainOnce(incumbent *ctnode.Node, incumbentCost, generated, conflicts, pending int, nextID int64, open *minheap.Heap[*ctnode.Node]) (*ctnode.Node, int, int, int, int, int64) {
	found := false
	for _, src := range co.workers {
		env, ok := co.ep.ProbeFrom(src)
		if !ok {
			continue
		}
		found = true
		switch env.Tag {
		case transport.TagSolution:
			co.ep.RecvFrom(src)
			n, _ := codec.Decode(env.Wire())
			pending--
			if n.Cost < incumbentCost {
				incumbent, incumbentCost = n, n.Cost
			}
		case transport.TagChildCount:
			co.ep.RecvFrom(src)
			count := int(env.Count)
			pending--
			conflicts++
			for i := 0; i < count; i++ {
				childEnv := co.ep.RecvFrom(src) // pinned-source follow-up, spec.md §5
				n, _ := codec.Decode(childEnv.Wire())
				if n.Cost >= incumbentCost {
					continue
				}
				n.ID = nextID
				nextID++
				generated++
				open.Push(n)
			}
		}
	}
	if !found {
		time.Sleep(pollInterval)
	}
	return incumbent, incumbentCost, generated, conflicts, pending, nextID
}

// drainStragglers waits up to drainGrace for any in-flight worker replies so
// their goroutines don't leak past Run returning, then gives up.
func (co *Coordinator) drainStragglers(pending int) {
	if pending == 0 {
		return
	}
	deadline := time.Now().Add(drainGrace)
	for pending > 0 && time.Now().Before(deadline) {
		drained := false
		for _, src := range co.workers {
			env, ok := co.ep.ProbeFrom(src)
			if !ok {
				continue
			}
			drained = true
			switch env.Tag {
			case transport.TagSolution:
				co.ep.RecvFrom(src)
				pending--
			case transport.TagChildCount:
				co.ep.RecvFrom(src)
				count := int(env.Count)
				pending--
				for i := 0; i < count; i++ {
					co.ep.RecvFrom(src)
				}
			}
		}
		if !drained {
			time.Sleep(pollInterval)
		}
	}
}

func (co *Coordinator) broadcastTerminate() {
	for _, dst := range co.workers {
		co.pool.SendAsync(dst, transport.Envelope{Tag: transport.TagTerminate})
	}
	co.pool.WaitAll()
}

func clampCost(c int) int {
	if c == math.MaxInt {
		return math.MaxInt32
	}
	return c
}

func finish(incumbent *ctnode.Node, expanded, generated, conflicts int, start time.Time, status result.Status) result.Run {
	cost := -1
	r := result.Run{
		NodesExpanded:  expanded,
		NodesGenerated: generated,
		Conflicts:      conflicts,
		RuntimeSec:     time.Since(start).Seconds(),
		ComputeTimeSec: time.Since(start).Seconds(),
		Status:         status,
	}
	if incumbent != nil {
		cost = incumbent.Cost
		r.Paths = incumbent.Paths
	}
	r.Cost = cost
	return r
}
