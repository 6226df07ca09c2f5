package ioformat

import (
	"strings"
	"testing"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

func TestParseMap(t *testing.T) {
	src := "3 2\n010\n000\n"
	grid, err := parseMap(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parseMap: %v", err)
	}
	if grid.Width() != 3 || grid.Height() != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", grid.Width(), grid.Height())
	}
	if !grid.IsObstacle(core.GridCoord{X: 1, Y: 0}) {
		t.Error("expected obstacle at (1,0)")
	}
	if grid.IsObstacle(core.GridCoord{X: 0, Y: 0}) {
		t.Error("did not expect obstacle at (0,0)")
	}
}

func TestParseMapRejectsBadByte(t *testing.T) {
	_, err := parseMap(strings.NewReader("2 1\n0x\n"))
	if err == nil {
		t.Fatal("expected an error for an unexpected map byte")
	}
}

func TestParseMapRejectsTruncation(t *testing.T) {
	_, err := parseMap(strings.NewReader("2 2\n00\n"))
	if err == nil {
		t.Fatal("expected an error for a truncated map file")
	}
}
