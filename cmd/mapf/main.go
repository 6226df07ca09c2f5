// Command mapf runs a conflict-based-search multi-agent pathfinding solve in
// one of three execution modes: serial, centralized, or decentralized
// (spec.md §2). Grounded on tools/run_benchmarks/main.go's flag-driven CLI
// shape and on cmd/bw/main.go's top-level flag handling style.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/mapf-cbs/internal/centralized"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/decentralized"
	"github.com/elektrokombinacija/mapf-cbs/internal/ioformat"
	"github.com/elektrokombinacija/mapf-cbs/internal/result"
	"github.com/elektrokombinacija/mapf-cbs/internal/serial"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
	"github.com/elektrokombinacija/mapf-cbs/internal/tui"
	"github.com/elektrokombinacija/mapf-cbs/internal/watch"
)

func main() {
	mapPath := flag.String("map", "", "path to the map file (required)")
	agentsPath := flag.String("agents", "", "path to the agents file (required)")
	mode := flag.String("mode", "serial", "execution mode: serial, centralized, decentralized")
	timeoutSec := flag.Float64("timeout", 0, "wall-clock budget in seconds (0 disables)")
	csvPath := flag.String("csv", "", "append a result row to this CSV file")
	expanders := flag.Int("expanders", 4, "worker rank count for centralized/decentralized modes")
	llPool := flag.Int("ll-pool", 0, "distributed low-level expander ranks per centralized worker (0 disables)")
	w := flag.Float64("w", 1.0, "bounded-suboptimality factor for decentralized mode")
	maxExpansions := flag.Int("max-expansions", 0, "cap on CT nodes popped in serial mode (0 disables)")
	watchFlag := flag.Bool("watch", false, "re-run automatically when --map or --agents changes")
	tuiFlag := flag.Bool("tui", false, "show a live progress dashboard instead of printing a summary")
	flag.Parse()

	if *mapPath == "" || *agentsPath == "" {
		fmt.Fprintln(os.Stderr, "mapf: --map and --agents are required")
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "[mapf] ", log.LstdFlags)
	timeout := time.Duration(*timeoutSec * float64(time.Second))

	runOnce := func() bool {
		runID := uuid.NewString()
		r, row, err := solveOnce(*mapPath, *agentsPath, *mode, timeout, *expanders, *llPool, *w, *maxExpansions, *tuiFlag)
		if err != nil {
			logger.Printf("run=%s solve failed: %v", runID, err)
			return false
		}
		r.RunID = runID
		logger.Printf("run=%s status=%s cost=%d", r.RunID, r.Status, r.Cost)
		printSummary(r)
		if *csvPath != "" {
			if err := ioformat.AppendCSV(*csvPath, row, r); err != nil {
				logger.Printf("run=%s csv: %v", r.RunID, err)
			}
		}
		return true
	}

	ok := runOnce()

	if !*watchFlag {
		if !ok {
			os.Exit(1)
		}
		return
	}

	w2, err := watch.New([]string{*mapPath, *agentsPath})
	if err != nil {
		logger.Fatalf("watch: %v", err)
	}
	stop := make(chan struct{})
	defer close(stop)
	w2.Run(stop, func() { runOnce() })
}

func solveOnce(mapPath, agentsPath, mode string, timeout time.Duration, expanders, llPool int, w float64, maxExpansions int, useTUI bool) (result.Run, ioformat.Row, error) {
	grid, err := ioformat.ReadMap(mapPath)
	if err != nil {
		return result.Run{}, ioformat.Row{}, err
	}
	starts, goals, err := ioformat.ReadAgents(agentsPath)
	if err != nil {
		return result.Run{}, ioformat.Row{}, err
	}
	inst := &core.ProblemInstance{Map: grid, Starts: starts, Goals: goals}
	if err := inst.Validate(); err != nil {
		return result.Run{}, ioformat.Row{}, err
	}

	row := ioformat.Row{
		MapPath: mapPath, AgentsPath: agentsPath,
		Width: grid.Width(), Height: grid.Height(),
		TimeoutSec: timeout.Seconds(),
	}

	if useTUI {
		return runWithTUI(inst, mapPath, mode, timeout, expanders, llPool, w, maxExpansions), row, nil
	}

	switch mode {
	case "serial":
		return serial.Run(inst, serial.Options{Timeout: timeout, MaxExpansions: maxExpansions}), row, nil
	case "centralized":
		return runCentralized(inst, timeout, expanders, llPool), row, nil
	case "decentralized":
		return runDecentralized(inst, timeout, expanders, w), row, nil
	default:
		return result.Run{}, ioformat.Row{}, fmt.Errorf("mapf: unknown mode %q", mode)
	}
}

// runCentralized builds one rank group of 1 (coordinator) + workers *
// (1 + llPool) ranks: each worker owns a disjoint llPool-sized sub-pool of
// distributed low-level expander ranks that no other worker ever addresses
// (spec.md §6, "--ll-pool M").
func runCentralized(inst *core.ProblemInstance, timeout time.Duration, workers, llPool int) result.Run {
	span := 1 + llPool
	eps := transport.NewGroup(1 + workers*span)
	results := make(chan result.Run, 1)

	workerRanks := make([]transport.Rank, workers)
	for i := 0; i < workers; i++ {
		base := 1 + i*span
		worker := eps[base]
		workerRanks[i] = worker.Rank()
		var llExpander []*transport.Endpoint
		if llPool > 0 {
			llExpander = eps[base+1 : base+span]
		}
		go centralized.NewWorker(worker, inst, llExpander).Run(0)
	}
	go func() {
		co := centralized.NewCoordinator(eps[0], workerRanks)
		results <- co.Run(inst, centralized.Options{Timeout: timeout})
	}()

	return <-results
}

func runDecentralized(inst *core.ProblemInstance, timeout time.Duration, peers int, w float64) result.Run {
	eps := transport.NewGroup(peers)
	results := make(chan result.Run, peers)

	for _, ep := range eps {
		ep := ep
		go func() {
			results <- decentralized.NewPeer(ep, inst).Run(decentralized.Options{W: w, Timeout: timeout})
		}()
	}

	// Every peer returns the same global outcome by construction (their
	// final collective round agreed on global_best); the last result
	// received is as good as any other's.
	var out result.Run
	for range eps {
		out = <-results
	}
	return out
}

// runWithTUI drives the same solve paths while the dashboard is shown. No
// mode sends progress snapshots on the updates channel: the dashboard shows
// zero counters until the run finishes, then the final result.
func runWithTUI(inst *core.ProblemInstance, mapPath, mode string, timeout time.Duration, expanders, llPool int, w float64, maxExpansions int) result.Run {
	updates := make(chan tui.Snapshot)
	done := make(chan result.Run, 1)
	final := make(chan result.Run, 1)

	go func() {
		var r result.Run
		switch mode {
		case "serial":
			r = serial.Run(inst, serial.Options{Timeout: timeout, MaxExpansions: maxExpansions})
		case "centralized":
			r = runCentralized(inst, timeout, expanders, llPool)
		case "decentralized":
			r = runDecentralized(inst, timeout, expanders, w)
		}
		close(updates)
		done <- r
		final <- r
	}()

	_ = tui.Run(mapPath, updates, done)
	return <-final
}

func printSummary(r result.Run) {
	fmt.Printf("status=%s cost=%d expanded=%d generated=%d conflicts=%d runtime=%.3fs\n",
		r.Status, r.Cost, r.NodesExpanded, r.NodesGenerated, r.Conflicts, r.RuntimeSec)
}
