package decentralized_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/decentralized"
	"github.com/elektrokombinacija/mapf-cbs/internal/result"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
)

func runPeers(t *testing.T, inst *core.ProblemInstance, n int, opts decentralized.Options) result.Run {
	t.Helper()
	eps := transport.NewGroup(n)
	results := make(chan result.Run, n)
	for _, ep := range eps {
		ep := ep
		go func() {
			results <- decentralized.NewPeer(ep, inst).Run(opts)
		}()
	}
	var out result.Run
	for range eps {
		out = <-results
	}
	return out
}

func TestDecentralizedSolvesCorridorSwap(t *testing.T) {
	grid := core.NewGridMap(5, 1)
	inst := &core.ProblemInstance{
		Map:    grid,
		Starts: []core.GridCoord{{X: 0, Y: 0}, {X: 4, Y: 0}},
		Goals:  []core.GridCoord{{X: 4, Y: 0}, {X: 0, Y: 0}},
	}

	r := runPeers(t, inst, 3, decentralized.Options{W: 1.0, Timeout: 10 * time.Second})
	require.Equal(t, result.Success, r.Status)
	require.Nil(t, conflict.Detect(r.Paths))
}

func TestDecentralizedReportsFailureWhenInfeasible(t *testing.T) {
	grid := core.NewGridMap(3, 1)
	grid.SetObstacle(core.GridCoord{X: 1, Y: 0})
	inst := &core.ProblemInstance{
		Map:    grid,
		Starts: []core.GridCoord{{X: 0, Y: 0}},
		Goals:  []core.GridCoord{{X: 2, Y: 0}},
	}

	r := runPeers(t, inst, 2, decentralized.Options{W: 1.0, Timeout: 3 * time.Second})
	require.Equal(t, result.Failure, r.Status)
}
