package centralized_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/centralized"
	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/result"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
)

func TestCoordinatorSolvesCorridorSwap(t *testing.T) {
	grid := core.NewGridMap(5, 1)
	inst := &core.ProblemInstance{
		Map:    grid,
		Starts: []core.GridCoord{{X: 0, Y: 0}, {X: 4, Y: 0}},
		Goals:  []core.GridCoord{{X: 4, Y: 0}, {X: 0, Y: 0}},
	}

	const workers = 3
	eps := transport.NewGroup(workers + 1)
	workerRanks := make([]transport.Rank, 0, workers)
	for r := 1; r < len(eps); r++ {
		go centralized.NewWorker(eps[r], inst, nil).Run(0)
		workerRanks = append(workerRanks, eps[r].Rank())
	}

	co := centralized.NewCoordinator(eps[0], workerRanks)
	r := co.Run(inst, centralized.Options{Timeout: 10 * time.Second})

	require.Equal(t, result.Success, r.Status)
	require.Len(t, r.Paths, 2)
	require.Nil(t, conflict.Detect(r.Paths))
}

// TestCoordinatorDispatchesCostPlateau exercises a root split that produces
// several same-cost children at once (two crossing pairs on a cross-shaped
// junction, each splittable two ways): Run must dispatch the whole tied
// plateau and fold every one of its replies back into OPEN/the incumbent
// before moving to a costlier tier, not just the first reply it sees
// (spec.md §4.3/§4.4).
func TestCoordinatorDispatchesCostPlateau(t *testing.T) {
	grid := core.NewGridMap(3, 3)
	inst := &core.ProblemInstance{
		Map: grid,
		Starts: []core.GridCoord{
			{X: 0, Y: 1}, {X: 2, Y: 1},
			{X: 1, Y: 0}, {X: 1, Y: 2},
		},
		Goals: []core.GridCoord{
			{X: 2, Y: 1}, {X: 0, Y: 1},
			{X: 1, Y: 2}, {X: 1, Y: 0},
		},
	}

	const workers = 2
	eps := transport.NewGroup(workers + 1)
	workerRanks := make([]transport.Rank, 0, workers)
	for r := 1; r < len(eps); r++ {
		go centralized.NewWorker(eps[r], inst, nil).Run(0)
		workerRanks = append(workerRanks, eps[r].Rank())
	}

	co := centralized.NewCoordinator(eps[0], workerRanks)
	r := co.Run(inst, centralized.Options{Timeout: 10 * time.Second})

	require.Equal(t, result.Success, r.Status)
	require.Len(t, r.Paths, 4)
	require.Nil(t, conflict.Detect(r.Paths))
}

func TestCoordinatorReportsFailureWhenInfeasible(t *testing.T) {
	grid := core.NewGridMap(3, 1)
	grid.SetObstacle(core.GridCoord{X: 1, Y: 0})
	inst := &core.ProblemInstance{
		Map:    grid,
		Starts: []core.GridCoord{{X: 0, Y: 0}},
		Goals:  []core.GridCoord{{X: 2, Y: 0}},
	}

	eps := transport.NewGroup(2)
	go centralized.NewWorker(eps[1], inst, nil).Run(0)

	co := centralized.NewCoordinator(eps[0], []transport.Rank{eps[1].Rank()})
	r := co.Run(inst, centralized.Options{Timeout: 3 * time.Second})
	require.Equal(t, result.Failure, r.Status)
}
