// Command mapf-render draws a map with each agent's start cell (a numbered
// circle) and goal cell (an outlined square) as an SVG. It does not solve the
// instance and draws no trajectories. It replaces the teacher's gio-based interactive viewer (cmd/mapfhetvis,
// dropped — see DESIGN.md) with a headless renderer suited to batch and CI
// use. Grounded on ajstarks/svgo's canvas API, the only rendering dependency
// the examples carry that does not require an interactive event loop.
package main

import (
	"flag"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/ioformat"
)

const cellPx = 24

var palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
}

func main() {
	mapPath := flag.String("map", "", "path to the map file (required)")
	agentsPath := flag.String("agents", "", "path to the agents file (required)")
	out := flag.String("out", "", "output SVG path (default: stdout)")
	flag.Parse()

	if *mapPath == "" || *agentsPath == "" {
		fmt.Fprintln(os.Stderr, "mapf-render: --map and --agents are required")
		os.Exit(2)
	}

	grid, err := ioformat.ReadMap(*mapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	starts, goals, err := ioformat.ReadAgents(*agentsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	render(w, grid, starts, goals)
}

func render(w *os.File, grid *core.GridMap, starts, goals []core.GridCoord) {
	canvas := svg.New(w)
	width, height := grid.Width()*cellPx, grid.Height()*cellPx
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.IsObstacle(core.GridCoord{X: x, Y: y}) {
				canvas.Rect(x*cellPx, y*cellPx, cellPx, cellPx, "fill:#333333")
			}
		}
	}
	for x := 0; x <= grid.Width(); x++ {
		canvas.Line(x*cellPx, 0, x*cellPx, height, "stroke:#cccccc;stroke-width:1")
	}
	for y := 0; y <= grid.Height(); y++ {
		canvas.Line(0, y*cellPx, width, y*cellPx, "stroke:#cccccc;stroke-width:1")
	}

	for i, s := range starts {
		color := palette[i%len(palette)]
		cx, cy := s.X*cellPx+cellPx/2, s.Y*cellPx+cellPx/2
		canvas.Circle(cx, cy, cellPx/3, fmt.Sprintf("fill:%s", color))
		canvas.Text(cx, cy+4, fmt.Sprintf("%d", i), "text-anchor:middle;font-size:10px;fill:white")
	}
	for i, g := range goals {
		color := palette[i%len(palette)]
		x0, y0 := g.X*cellPx+4, g.Y*cellPx+4
		canvas.Rect(x0, y0, cellPx-8, cellPx-8, fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", color))
	}

	canvas.End()
}
