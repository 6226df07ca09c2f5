// Package serial implements the serial execution mode: one process runs the
// entire CBS loop with no transport traffic (spec.md §2(a)). It is grounded
// on the teacher's CBS.Solve (internal/algo/cbs.go), generalized to the
// grid/constraint packages and to the shared termination rule of
// spec.md §4.3 rather than returning on the first zero-conflict pop.
package serial

import (
	"math"
	"time"

	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/ctnode"
	"github.com/elektrokombinacija/mapf-cbs/internal/minheap"
	"github.com/elektrokombinacija/mapf-cbs/internal/result"
)

// Options configures a serial run.
type Options struct {
	// Timeout is the wall-clock budget; zero disables it (spec.md §6,
	// "--timeout SECONDS (0 disables)").
	Timeout time.Duration
	// MaxExpansions caps the number of CT nodes popped from OPEN, the
	// "expanded-node budget" original_source/src/main_serial.c supports
	// (spec.md §5, SPEC_FULL.md §5). Zero disables it.
	MaxExpansions int
}

// Run executes the serial CBS loop to completion, to timeout, or to OPEN
// exhaustion.
func Run(inst *core.ProblemInstance, opts Options) result.Run {
	start := time.Now()
	tMax := core.HorizonFor(inst.Map)

	var nextID int64
	root, ok := ctnode.Root(inst, nextID, tMax)
	if !ok {
		return result.Run{Cost: -1, Status: result.Failure, RuntimeSec: time.Since(start).Seconds(), ComputeTimeSec: time.Since(start).Seconds()}
	}
	nextID++

	open := minheap.New[*ctnode.Node]()
	open.Push(root)

	incumbent := (*ctnode.Node)(nil)
	incumbentCost := math.MaxInt
	expanded, generated, conflicts := 0, 0, 0

	deadline := time.Time{}
	if opts.Timeout > 0 {
		deadline = start.Add(opts.Timeout)
	}

	for open.Len() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return finish(incumbent, expanded, generated, conflicts, start, result.Timeout)
		}
		if incumbent != nil && open.PeekScore() >= float64(incumbentCost) {
			break
		}
		if opts.MaxExpansions > 0 && expanded >= opts.MaxExpansions {
			break
		}

		node := open.Pop()
		expanded++

		c := conflict.Detect(node.Paths)
		if c == nil {
			if node.Cost < incumbentCost {
				incumbent = node
				incumbentCost = node.Cost
			}
			continue
		}
		conflicts++

		children := ctnode.Children(inst, node, c, incumbentCost, tMax)
		for _, child := range children {
			child.ID = nextID
			nextID++
			generated++
			open.Push(child)
		}
	}

	status := result.Success
	if incumbent == nil {
		status = result.Failure
	}
	return finish(incumbent, expanded, generated, conflicts, start, status)
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
