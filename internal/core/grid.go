// Package core defines the static map and problem-instance data model for
// the MAPF solver: the grid an agent moves on, and the bundle of agents,
// obstacles and run parameters a search mode consumes.
package core

import "fmt"

// GridCoord is an integer 2D cell. It is a value type: copy it freely.
type GridCoord struct {
	X, Y int
}

// Add returns the coordinate offset by dx, dy.
func (c GridCoord) Add(dx, dy int) GridCoord {
	return GridCoord{X: c.X + dx, Y: c.Y + dy}
}

// cardinalMoves are the four non-wait moves, in a fixed deterministic order.
var cardinalMoves = [4]GridCoord{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// GridMap is an immutable-after-construction 2D occupancy grid. Bounds
// checks always precede obstacle checks: a coordinate outside [0,W)x[0,H)
// is treated as an obstacle rather than panicking or indexing out of range.
type GridMap struct {
	width, height int
	occupied      []bool // row-major, len == width*height
}

// NewGridMap builds a width x height grid with every cell free.
func NewGridMap(width, height int) *GridMap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("core: invalid grid dimensions %dx%d", width, height))
	}
	return &GridMap{
		width:    width,
		height:   height,
		occupied: make([]bool, width*height),
	}
}

// Width returns W.
func (g *GridMap) Width() int { return g.width }

// Height returns H.
func (g *GridMap) Height() int { return g.height }

// InBounds reports whether c falls within [0,W) x [0,H).
func (g *GridMap) InBounds(c GridCoord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// SetObstacle marks c as an obstacle. Panics if c is out of bounds; callers
// build the grid from trusted, already-validated map data.
func (g *GridMap) SetObstacle(c GridCoord) {
	g.occupied[g.index(c)] = true
}

// IsObstacle reports whether c is occupied. Out-of-bounds cells are
// obstacles by convention (bounds are checked first).
func (g *GridMap) IsObstacle(c GridCoord) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.occupied[g.index(c)]
}

// IsFree is the negation of IsObstacle, spelled out for call sites that
// read better as a positive condition.
func (g *GridMap) IsFree(c GridCoord) bool {
	return !g.IsObstacle(c)
}

func (g *GridMap) index(c GridCoord) int {
	return c.Y*g.width + c.X
}

// Neighbors appends c's four cardinal neighbors plus c itself (the wait
// move) to dst in the fixed order {+x, -x, +y, -y, wait}, without any
// admissibility filtering — callers apply constraints themselves. Passing a
// zero-length, sufficiently-capacity dst avoids an allocation per call.
func (g *GridMap) Neighbors(c GridCoord, dst []GridCoord) []GridCoord {
	for _, m := range cardinalMoves {
		dst = append(dst, c.Add(m.X, m.Y))
	}
	return append(dst, c)
}

// ManhattanDistance is the admissible, consistent heuristic used by the
// time-expanded A* low level.
func ManhattanDistance(a, b GridCoord) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
