// Package minheap implements a binary min-heap keyed by a float64 score,
// generalizing the per-algorithm container/heap.Interface implementations
// the teacher wrote separately for its CT-node heap and its A* open list
// (cbsHeap, astarHeap in the original MAPF-HET solver) into one reusable
// type parameterized over the stored item.
package minheap

import (
	"container/heap"
	"math"
)

// Item is anything a Heap can order: a score to compare on. The heap keeps
// each item's index in its own internal entry wrapper; callers cannot look
// an entry up again after Push.
type Item interface {
	Score() float64
}

// entry wraps a pushed item with its heap index.
type entry[T Item] struct {
	value T
	index int
}

// innerHeap is the container/heap.Interface adaptor; Heap wraps it so
// callers never import container/heap themselves.
type innerHeap[T Item] []*entry[T]

func (h innerHeap[T]) Len() int            { return len(h) }
func (h innerHeap[T]) Less(i, j int) bool  { return h[i].value.Score() < h[j].value.Score() }
func (h innerHeap[T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *innerHeap[T]) Push(x interface{}) { e := x.(*entry[T]); e.index = len(*h); *h = append(*h, e) }
func (h *innerHeap[T]) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Heap is a min-heap of T ordered by Item.Score(). Ties break by the heap's
// internal layout, not by insertion order; the order among equal scores is
// unspecified.
type Heap[T Item] struct {
	h innerHeap[T]
}

// New returns an empty heap.
func New[T Item]() *Heap[T] {
	return &Heap[T]{}
}

// Len reports the number of items in the heap.
func (h *Heap[T]) Len() int { return h.h.Len() }

// Push inserts an item.
func (h *Heap[T]) Push(v T) {
	heap.Push(&h.h, &entry[T]{value: v})
}

// Pop removes and returns the minimum-score item.
func (h *Heap[T]) Pop() T {
	e := heap.Pop(&h.h).(*entry[T])
	return e.value
}

// Peek returns the minimum-score item without removing it. Panics if empty;
// callers must check Len() first, same discipline the teacher's cbsHeap
// usage followed via open.Len() > 0 guards.
func (h *Heap[T]) Peek() T {
	return h.h[0].value
}

// PeekScore returns the minimum score, or +Inf if the heap is empty — used
// by the decentralized searcher's local_lb computation (spec.md §4.6) which
// needs a sentinel rather than a panic for an empty OPEN.
func (h *Heap[T]) PeekScore() float64 {
	if h.h.Len() == 0 {
		return math.Inf(1)
	}
	return h.h[0].value.Score()
}
