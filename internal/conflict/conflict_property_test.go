package conflict_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/pathbuf"
)

// genPaths builds a small set of random single-step-per-move paths on a
// bounded grid: consecutive cells differ by at most one cardinal step (or
// not at all), mirroring what ArenaAStar can actually produce.
func genPaths(t *rapid.T) []pathbuf.Path {
	numAgents := rapid.IntRange(1, 4).Draw(t, "numAgents")
	paths := make([]pathbuf.Path, numAgents)
	moves := []core.GridCoord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	for i := range paths {
		length := rapid.IntRange(1, 10).Draw(t, "len")
		p := make(pathbuf.Path, length)
		p[0] = core.GridCoord{X: rapid.IntRange(0, 4).Draw(t, "sx"), Y: rapid.IntRange(0, 4).Draw(t, "sy")}
		for j := 1; j < length; j++ {
			m := moves[rapid.IntRange(0, len(moves)-1).Draw(t, "move")]
			p[j] = p[j-1].Add(m.X, m.Y)
		}
		paths[i] = p
	}
	return paths
}

// bruteForceConflict independently checks every agent pair for a collision,
// as a second implementation to check Detect against (Testable Property 4,
// spec.md §8). Deliberately structured differently from Detect/DetectAll
// (pair outer, time inner, one horizon per pair rather than one shared tMax)
// so it doesn't silently inherit the same off-by-one the scan under test
// might have.
func bruteForceConflict(paths []pathbuf.Path) bool {
	for a := 0; a < len(paths); a++ {
		for b := a + 1; b < len(paths); b++ {
			horizon := paths[a].Len()
			if paths[b].Len() > horizon {
				horizon = paths[b].Len()
			}
			for tt := 0; tt < horizon; tt++ {
				if paths[a].At(tt) == paths[b].At(tt) {
					return true
				}
				if paths[a].At(tt) == paths[b].At(tt+1) && paths[b].At(tt) == paths[a].At(tt+1) {
					return true
				}
			}
		}
	}
	return false
}

// TestDetectAgreesWithBruteForce checks Testable Property 4: Detect returns
// none if and only if the joint plan is actually collision-free under the
// wait-at-goal extension.
func TestDetectAgreesWithBruteForce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := genPaths(t)
		got := conflict.Detect(paths) != nil
		want := bruteForceConflict(paths)
		if got != want {
			t.Fatalf("Detect() found-conflict=%v, brute force found-conflict=%v, paths=%v", got, want, paths)
		}
	})
}

// TestDetectAllSupersetsDetect checks that whenever Detect finds something,
// DetectAll's first entry is the exact same conflict — both scan in the
// same deterministic (t, pair) order (spec.md §3).
func TestDetectAllSupersetsDetect(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := genPaths(t)
		first := conflict.Detect(paths)
		all := conflict.DetectAll(paths)

		if (first == nil) != (len(all) == 0) {
			t.Fatalf("Detect()==nil is %v but DetectAll returned %d conflicts", first == nil, len(all))
		}
		if first != nil && *first != *all[0] {
			t.Fatalf("Detect() = %+v, but DetectAll()[0] = %+v", *first, *all[0])
		}
	})
}
