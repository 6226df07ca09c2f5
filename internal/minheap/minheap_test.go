package minheap

import (
	"math"
	"testing"
)

type scored float64

func (s scored) Score() float64 { return float64(s) }

func TestHeapPopsInAscendingOrder(t *testing.T) {
	h := New[scored]()
	for _, v := range []scored{5, 1, 4, 2, 3} {
		h.Push(v)
	}
	var got []scored
	for h.Len() > 0 {
		got = append(got, h.Pop())
	}
	want := []scored{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestHeapPeekDoesNotRemove(t *testing.T) {
	h := New[scored]()
	h.Push(scored(3))
	h.Push(scored(1))
	if got := h.Peek(); got != scored(1) {
		t.Fatalf("Peek() = %v, want 1", got)
	}
	if h.Len() != 2 {
		t.Fatalf("Peek should not remove; Len() = %d, want 2", h.Len())
	}
}

func TestPeekScoreOnEmptyHeapIsInf(t *testing.T) {
	h := New[scored]()
	if got := h.PeekScore(); !math.IsInf(got, 1) {
		t.Fatalf("PeekScore() on empty heap = %v, want +Inf", got)
	}
}
