package transport

import "sync"

// ReduceOp combines two values into one; reductions are associative and
// commutative (Min, Max) so applying them pairwise across arrival order is
// well defined.
type ReduceOp func(a, b float64) float64

// Min is a ReduceOp.
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max is a ReduceOp.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Collective is a barrier-based all-reduce over a fixed-size group: every
// rank calls Reduce with its own per-slot values and the same ops vector;
// the call returns only once every rank has arrived, and every rank
// receives the same elementwise-reduced vector. This is the in-process
// analogue of an MPI collective (spec.md §4.6, §5 "collective reductions").
type Collective struct {
	size int
	slots int

	mu      sync.Mutex
	cond    *sync.Cond
	gen     int
	arrived int
	values  [][]float64
	result  []float64
}

// NewCollective builds a Collective for a group of n ranks, each
// contributing a vector of the given width.
func NewCollective(n, width int) *Collective {
	c := &Collective{size: n, slots: width}
	c.cond = sync.NewCond(&c.mu)
	c.values = make([][]float64, n)
	for i := range c.values {
		c.values[i] = make([]float64, width)
	}
	c.result = make([]float64, width)
	return c
}

// Reduce contributes this rank's vector and blocks until every rank in the
// group has called Reduce for the current round, then returns the
// elementwise reduction (ops[i] applied across values[*][i]) to every
// caller.
func (c *Collective) Reduce(rank Rank, vec []float64, ops []ReduceOp) []float64 {
	c.mu.Lock()
	myGen := c.gen
	copy(c.values[rank], vec)
	c.arrived++
	if c.arrived == c.size {
		result := make([]float64, c.slots)
		copy(result, c.values[0])
		for _, v := range c.values[1:] {
			for i := range result {
				result[i] = ops[i](result[i], v[i])
			}
		}
		c.result = result
		c.arrived = 0
		c.gen++
		c.cond.Broadcast()
	} else {
		for c.gen == myGen {
			c.cond.Wait()
		}
	}
	out := make([]float64, c.slots)
	copy(out, c.result)
	c.mu.Unlock()
	return out
}

// Timeouts returns the group's shared 1-wide OR-reduction collective: each
// rank contributes 1.0 if it has locally timed out, 0.0 otherwise, and
// every rank learns whether *any* rank has (spec.md §5, "local timeouts are
// OR-reduced each iteration").
func (e *Endpoint) Timeouts() *Collective { return e.group.timeouts }

// Bounds returns the group's shared 2-wide MIN-reduction collective used for
// global_lb and global_best in the decentralized searcher (spec.md §4.6).
func (e *Endpoint) Bounds() *Collective { return e.group.reduce }
