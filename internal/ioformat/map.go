// Package ioformat reads the plain-text map and agent files spec.md §6
// defines and writes the result CSV every execution mode appends a row to.
// It is grounded on the teacher's tools/gen_instances (encoding/json +
// bufio-free os.ReadFile style for small deterministic fixture files) and on
// original_source/src/main_serial.c's own map/agent-file reader for the
// exact grid and text layouts.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

// ReadMap parses a map file: a "W H" header line followed by H lines of W
// characters each, '0' for free and '1' for obstacle (spec.md §6).
func ReadMap(path string) (*core.GridMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ioformat: open map %s: %w", path, err)
	}
	defer f.Close()
	return parseMap(f)
}

func parseMap(r io.Reader) (*core.GridMap, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return nil, fmt.Errorf("ioformat: empty map file")
	}
	w, h, err := parseDims(sc.Text())
	if err != nil {
		return nil, err
	}

	grid := core.NewGridMap(w, h)
	for y := 0; y < h; y++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("ioformat: map file truncated at row %d of %d", y, h)
		}
		row := sc.Text()
		if len(row) < w {
			return nil, fmt.Errorf("ioformat: map row %d has %d cells, want %d", y, len(row), w)
		}
		for x := 0; x < w; x++ {
			switch row[x] {
			case '1':
				grid.SetObstacle(core.GridCoord{X: x, Y: y})
			case '0':
			default:
				return nil, fmt.Errorf("ioformat: map row %d col %d: unexpected byte %q", y, x, row[x])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ioformat: reading map: %w", err)
	}
	return grid, nil
}

func parseDims(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("ioformat: map header %q: want \"W H\"", line)
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("ioformat: map width %q: %w", fields[0], err)
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("ioformat: map height %q: %w", fields[1], err)
	}
	return w, h, nil
}
