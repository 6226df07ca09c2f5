package transport

import (
	"sync"
	"testing"
)

func TestSendRecvRoundTrip(t *testing.T) {
	eps := NewGroup(2)
	eps[0].SendBlocking(1, Envelope{Tag: TagTask, Count: 42})
	env := eps[1].RecvFrom(0)
	if env.Tag != TagTask || env.Count != 42 {
		t.Fatalf("got %+v, want Tag=TagTask Count=42", env)
	}
}

func TestProbeDoesNotConsume(t *testing.T) {
	eps := NewGroup(2)
	eps[0].SendBlocking(1, Envelope{Tag: TagSolution})

	if _, ok := eps[1].ProbeFrom(0); !ok {
		t.Fatal("expected a pending message")
	}
	if _, ok := eps[1].ProbeFrom(0); !ok {
		t.Fatal("probing twice should still see the message")
	}
	env := eps[1].RecvFrom(0)
	if env.Tag != TagSolution {
		t.Fatalf("got %+v", env)
	}
	if _, ok := eps[1].ProbeFrom(0); ok {
		t.Fatal("message should be gone after RecvFrom")
	}
}

// TestAsyncSendPoolConcurrentNoDropNoDuplicate issues many concurrent
// SendAsync calls to the same destination and checks that every payload
// arrives exactly once. Arrival order is not checked here, since concurrent
// callers have no defined issue order; see
// TestAsyncSendPoolSingleSourceOrdering for the ordering guarantee.
func TestAsyncSendPoolConcurrentNoDropNoDuplicate(t *testing.T) {
	eps := NewGroup(2)
	pool := NewAsyncSendPool(eps[0], 4)

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pool.SendAsync(1, Envelope{Tag: TagChildren, Count: int64(i)})
		}(i)
	}
	wg.Wait()
	pool.WaitAll()

	// SendAsync was called concurrently, so we cannot assume any particular
	// interleaving with other goroutines' sends landed in issue order
	// globally — but program order from each goroutine to a single
	// destination must still be preserved isn't guaranteed across
	// goroutines either. What IS guaranteed, and what this test checks, is
	// that nothing was dropped or duplicated: exactly n distinct counts
	// arrive.
	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		env := eps[1].RecvFrom(0)
		if seen[env.Count] {
			t.Fatalf("duplicate delivery of count %d", env.Count)
		}
		seen[env.Count] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct messages, want %d", len(seen), n)
	}
}

// TestAsyncSendPoolSingleSourceOrdering verifies the actual ordering
// guarantee the coordinator depends on: sends issued in sequence from one
// goroutine (exactly how a worker's processNode call behaves) arrive in
// that same sequence.
func TestAsyncSendPoolSingleSourceOrdering(t *testing.T) {
	eps := NewGroup(2)
	pool := NewAsyncSendPool(eps[0], 4)

	const n = 50
	for i := 0; i < n; i++ {
		pool.SendAsync(1, Envelope{Tag: TagChildren, Count: int64(i)})
	}
	pool.WaitAll()

	for i := 0; i < n; i++ {
		env := eps[1].RecvFrom(0)
		if env.Count != int64(i) {
			t.Fatalf("message %d arrived out of order: got Count=%d", i, env.Count)
		}
	}
}

func TestCollectiveMinReduce(t *testing.T) {
	c := NewCollective(3, 1)
	var wg sync.WaitGroup
	results := make([][]float64, 3)
	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r] = c.Reduce(Rank(r), []float64{float64(r + 1)}, []ReduceOp{Min})
		}(r)
	}
	wg.Wait()
	for r, got := range results {
		if got[0] != 1.0 {
			t.Errorf("rank %d got MIN-reduced value %v, want 1.0", r, got)
		}
	}
}

func TestDrainAnyConsumesEveryPending(t *testing.T) {
	eps := NewGroup(3)
	eps[1].SendBlocking(0, Envelope{Tag: TagDPNode, Count: 1})
	eps[2].SendBlocking(0, Envelope{Tag: TagDPNode, Count: 2})

	drained := eps[0].DrainAny()
	if len(drained) != 2 {
		t.Fatalf("got %d drained envelopes, want 2", len(drained))
	}
	if _, _, ok := eps[0].ProbeAny(); ok {
		t.Fatal("expected nothing left pending after DrainAny")
	}
}
