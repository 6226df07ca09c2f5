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

// ReadAgents parses an agents file: a line "N" followed by N lines "sx sy gx
// gy", 1 <= N <= 40 (spec.md §6, §5 agent-count invariant).
func ReadAgents(path string) ([]core.GridCoord, []core.GridCoord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ioformat: open agents %s: %w", path, err)
	}
	defer f.Close()
	return parseAgents(f)
}

func parseAgents(r io.Reader) ([]core.GridCoord, []core.GridCoord, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return nil, nil, fmt.Errorf("ioformat: empty agents file")
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return nil, nil, fmt.Errorf("ioformat: agent count %q: %w", sc.Text(), err)
	}
	if n < 1 || n > core.MaxAgents {
		return nil, nil, fmt.Errorf("ioformat: agent count %d out of range [1,%d]", n, core.MaxAgents)
	}

	starts := make([]core.GridCoord, n)
	goals := make([]core.GridCoord, n)
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, nil, fmt.Errorf("ioformat: agents file truncated at agent %d of %d", i, n)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != 4 {
			return nil, nil, fmt.Errorf("ioformat: agent %d line %q: want \"sx sy gx gy\"", i, sc.Text())
		}
		vals := make([]int, 4)
		for j, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, nil, fmt.Errorf("ioformat: agent %d field %d %q: %w", i, j, field, err)
			}
			vals[j] = v
		}
		starts[i] = core.GridCoord{X: vals[0], Y: vals[1]}
		goals[i] = core.GridCoord{X: vals[2], Y: vals[3]}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("ioformat: reading agents: %w", err)
	}
	return starts, goals, nil
}
