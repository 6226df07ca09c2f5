package core

import "testing"

func TestGridMapObstacles(t *testing.T) {
	g := NewGridMap(4, 3)
	if g.IsObstacle(GridCoord{X: 1, Y: 1}) {
		t.Fatal("fresh grid should have no obstacles")
	}
	g.SetObstacle(GridCoord{X: 1, Y: 1})
	if !g.IsObstacle(GridCoord{X: 1, Y: 1}) {
		t.Fatal("SetObstacle did not take effect")
	}
	if g.IsFree(GridCoord{X: 1, Y: 1}) {
		t.Fatal("IsFree should be false for an obstructed cell")
	}
}

func TestGridMapOutOfBoundsIsObstacle(t *testing.T) {
	g := NewGridMap(2, 2)
	cases := []GridCoord{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 2, Y: 0}, {X: 0, Y: 2}}
	for _, c := range cases {
		if g.InBounds(c) {
			t.Fatalf("%v should be out of bounds", c)
		}
		if !g.IsObstacle(c) {
			t.Fatalf("out-of-bounds %v should read as an obstacle", c)
		}
	}
}

func TestGridMapNewGridMapPanicsOnBadDims(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on non-positive dimensions")
		}
	}()
	NewGridMap(0, 5)
}

func TestNeighbors(t *testing.T) {
	g := NewGridMap(5, 5)
	got := g.Neighbors(GridCoord{X: 2, Y: 2}, nil)
	want := []GridCoord{{X: 3, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 1}, {X: 2, Y: 2}}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestManhattanDistance(t *testing.T) {
	tests := []struct {
		a, b GridCoord
		want int
	}{
		{GridCoord{0, 0}, GridCoord{0, 0}, 0},
		{GridCoord{0, 0}, GridCoord{3, 4}, 7},
		{GridCoord{2, 2}, GridCoord{-1, -1}, 6},
	}
	for _, tt := range tests {
		if got := ManhattanDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("ManhattanDistance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
