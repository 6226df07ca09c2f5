// Package decentralized implements the peer-to-peer execution mode of
// spec.md §2(c)/§4.6: every rank is a symmetric CBS searcher over its own
// share of the constraint tree, bounded-suboptimal via a shared w factor and
// coordinated only through collective MIN-reductions of a local lower bound
// and local incumbent. It is grounded on the teacher's CBS.Solve for the
// node-expansion step, generalized from one process's OPEN to many peers'
// OPENs kept consistent by internal/transport's Collective, and on
// original_source/src/parallel_cbs.c for the global_lb/global_best handshake
// SPEC_FULL.md §5 describes.
package decentralized

import (
	"math"
	"time"

	"github.com/elektrokombinacija/mapf-cbs/internal/codec"
	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/ctnode"
	"github.com/elektrokombinacija/mapf-cbs/internal/minheap"
	"github.com/elektrokombinacija/mapf-cbs/internal/result"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
)

// pollInterval mirrors internal/centralized's idle-poll cadence.
const pollInterval = 200 * time.Microsecond

// Options configures a decentralized peer.
type Options struct {
	// W is the bounded-suboptimality factor: the peer accepts the first
	// incumbent it can prove is within W of the true optimum rather than
	// searching for the exact optimum (spec.md §4.6, "--w FLOAT, default
	// 1.0"). W must be >= 1.0.
	W float64
	// Timeout is the wall-clock budget; zero disables it.
	Timeout time.Duration
}

// Peer is one rank of a decentralized search: it owns its own OPEN and id
// generator, and contributes to every round of the group's collective
// reductions whether or not it has local work.
type Peer struct {
	ep   *transport.Endpoint
	pool *transport.AsyncSendPool
	inst *core.ProblemInstance
	tMax int
}

// NewPeer builds a Peer bound to ep.
func NewPeer(ep *transport.Endpoint, inst *core.ProblemInstance) *Peer {
	return &Peer{
		ep:   ep,
		pool: transport.NewAsyncSendPool(ep, ep.Size()*2),
		inst: inst,
		tMax: core.HorizonFor(inst.Map),
	}
}

// Run executes this peer's share of the decentralized search. Every peer in
// the group must call Run; the collective reductions inside block until all
// of them have, round by round.
func (p *Peer) Run(opts Options) result.Run {
	start := time.Now()
	w := opts.W
	if w < 1.0 {
		w = 1.0
	}

	open := minheap.New[*ctnode.Node]()
	nextID := int64(p.ep.Rank()) // disjoint id spaces per rank: rank + k*size
	idStride := int64(p.ep.Size())

	if p.ep.Rank() == 0 {
		root, ok := ctnode.Root(p.inst, nextID, p.tMax)
		if ok {
			open.Push(root)
		}
		nextID += idStride
	}

	incumbent := (*ctnode.Node)(nil)
	incumbentCost := math.Inf(1)
	expanded, generated, conflicts := 0, 0, 0
	finalGlobalBest := math.Inf(1)

	deadline := time.Time{}
	if opts.Timeout > 0 {
		deadline = start.Add(opts.Timeout)
	}

	for {
		localTimeout := 0.0
		if !deadline.IsZero() && time.Now().After(deadline) {
			localTimeout = 1.0
		}
		anyTimeout := p.ep.Timeouts().Reduce(p.ep.Rank(), []float64{localTimeout}, []transport.ReduceOp{transport.Max})
		if anyTimeout[0] > 0 {
			return finish(incumbent, expanded, generated, conflicts, start, result.Timeout)
		}

		for _, env := range p.ep.DrainAny() {
			n, _ := codec.Decode(env.Wire())
			n.ID = nextID
			nextID += idStride
			if n.Cost < incumbentCost {
				open.Push(n)
			}
		}

		localLB := open.PeekScore()
		localBest := incumbentCost
		bounds := p.ep.Bounds().Reduce(p.ep.Rank(), []float64{localLB, localBest}, []transport.ReduceOp{transport.Min, transport.Min})
		globalLB, globalBest := bounds[0], bounds[1]
		finalGlobalBest = globalBest

		if globalLB == math.Inf(1) {
			// Every peer's OPEN is empty and none has a solution: the
			// problem is infeasible under tMax.
			break
		}
		if globalBest <= w*globalLB {
			// The best known solution is already provably within the
			// suboptimality bound (spec.md §4.6).
			break
		}

		bound := w * globalLB
		for open.Len() > 0 && open.Peek().Score() <= bound {
			node := open.Pop()
			expanded++

			c := conflict.Detect(node.Paths)
			if c == nil {
				if node.Cost < incumbentCost {
					incumbent = node
					incumbentCost = float64(node.Cost)
				}
				continue
			}
			conflicts++

			children := ctnode.Children(p.inst, node, c, int(clampBest(incumbentCost)), p.tMax)
			for i, child := range children {
				dst := transport.Rank((int(p.ep.Rank()) + i + 1) % p.ep.Size())
				if dst == p.ep.Rank() {
					child.ID = nextID
					nextID += idStride
					open.Push(child)
					continue
				}
				wire := codec.Encode(child, int64(child.ParentID))
				p.pool.SendAsync(dst, transport.WireEnvelope(transport.TagDPNode, wire))
				generated++
			}
		}
	}

	p.pool.WaitAll()

	incumbent = p.gatherWinner(incumbent, incumbentCost, finalGlobalBest)

	status := result.Success
	if incumbent == nil {
		status = result.Failure
	}
	return finish(incumbent, expanded, generated, conflicts, start, status)
}

// gatherWinner resolves spec.md §9 Open Question 1 ("the decentralized mode
// does not broadcast an incumbent node — only its cost"): one extra
// collective round agrees on the lowest rank whose local incumbent matches
// the globally-reduced best cost, then that rank sends its plan to every
// other rank directly. Without this, only the finder's own Peer.Run call
// would return a Success result with real paths; every sibling would report
// Failure despite the problem being solved, which is what spec.md Testable
// Property 9 ("all processes exit within one additional round") implies
// should not happen.
func (p *Peer) gatherWinner(incumbent *ctnode.Node, incumbentCost, globalBest float64) *ctnode.Node {
	mine := math.Inf(1)
	if incumbent != nil && incumbentCost <= globalBest {
		mine = float64(p.ep.Rank())
	}
	owner := p.ep.Bounds().Reduce(p.ep.Rank(), []float64{mine, 0}, []transport.ReduceOp{transport.Min, transport.Min})
	if math.IsInf(owner[0], 1) {
		return nil // no peer found a solution
	}
	ownerRank := transport.Rank(owner[0])

	if p.ep.Rank() == ownerRank {
		wire := codec.Encode(incumbent, 0)
		for r := 0; r < p.ep.Size(); r++ {
			if transport.Rank(r) == ownerRank {
				continue
			}
			p.ep.SendBlocking(transport.Rank(r), transport.WireEnvelope(transport.TagSolution, wire))
		}
		return incumbent
	}

	// A straggler TAG_DP_NODE the owner sent earlier and this peer never
	// got around to draining may still be sitting ahead of the solution in
	// this link (FIFO per (src,dst), not per tag) — skip past any such
	// leftovers rather than misreading one as the answer.
	env := p.ep.RecvFrom(ownerRank)
	for env.Tag != transport.TagSolution {
		env = p.ep.RecvFrom(ownerRank)
	}
	n, _ := codec.Decode(env.Wire())
	return n
}

func clampBest(best float64) float64 {
	if math.IsInf(best, 1) {
		return float64(math.MaxInt32)
	}
	return best
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
