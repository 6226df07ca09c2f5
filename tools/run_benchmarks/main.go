// Command run_benchmarks drives a batch of scenarios described by a YAML
// manifest through the solver and prints per-scenario and aggregate runtime
// statistics. Grounded on tools/run_benchmarks/main.go's flag-driven,
// solver-sweep shape in the teacher repo, adapted from its JSON
// instance/solver-name sweep to this module's map/agents scenarios, with
// gopkg.in/yaml.v3 for the manifest (replacing the teacher's
// encoding/json, since spec.md's own config surface is YAML-first) and
// gonum.org/v1/gonum/stat for the summary statistics the teacher computed
// by hand.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/mapf-cbs/internal/centralized"
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/decentralized"
	"github.com/elektrokombinacija/mapf-cbs/internal/ioformat"
	"github.com/elektrokombinacija/mapf-cbs/internal/result"
	"github.com/elektrokombinacija/mapf-cbs/internal/serial"
	"github.com/elektrokombinacija/mapf-cbs/internal/transport"
)

// maxConcurrentScenarios bounds how many manifest scenarios run_benchmarks
// solves at once; scenarios are independent (each builds its own transport
// group) but unbounded concurrency would oversubscribe the machine on a
// large manifest.
const maxConcurrentScenarios = 4

// Scenario is one manifest entry.
type Scenario struct {
	Name      string        `yaml:"name"`
	Map       string        `yaml:"map"`
	Agents    string        `yaml:"agents"`
	Mode      string        `yaml:"mode"`
	Timeout   time.Duration `yaml:"timeout"`
	Expanders int           `yaml:"expanders"`
	LLPool    int           `yaml:"ll_pool"`
	W         float64       `yaml:"w"`
	Repeats   int           `yaml:"repeats"`
}

// Manifest is the top-level YAML document run_benchmarks consumes.
type Manifest struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func main() {
	manifestPath := flag.String("manifest", "", "path to the YAML scenario manifest (required)")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "run_benchmarks: --manifest is required")
		os.Exit(2)
	}

	data, err := os.ReadFile(*manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var eg errgroup.Group
	eg.SetLimit(maxConcurrentScenarios)
	var printMu sync.Mutex

	for _, sc := range manifest.Scenarios {
		sc := sc
		eg.Go(func() error {
			runs, err := runScenario(sc)
			printMu.Lock()
			defer printMu.Unlock()
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", sc.Name, err)
				return nil
			}
			printSummary(sc, runs)
			return nil
		})
	}
	_ = eg.Wait() // stage errors are reported inline; nothing to propagate
}

func runScenario(sc Scenario) ([]result.Run, error) {
	grid, err := ioformat.ReadMap(sc.Map)
	if err != nil {
		return nil, err
	}
	starts, goals, err := ioformat.ReadAgents(sc.Agents)
	if err != nil {
		return nil, err
	}
	inst := &core.ProblemInstance{Map: grid, Starts: starts, Goals: goals}
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	repeats := sc.Repeats
	if repeats < 1 {
		repeats = 1
	}

	runs := make([]result.Run, 0, repeats)
	for i := 0; i < repeats; i++ {
		r := runOne(inst, sc)
		r.RunID = uuid.NewString()
		runs = append(runs, r)
	}
	return runs, nil
}

func runOne(inst *core.ProblemInstance, sc Scenario) result.Run {
	switch sc.Mode {
	case "centralized":
		n := sc.Expanders
		if n < 1 {
			n = 4
		}
		span := 1 + sc.LLPool
		eps := transport.NewGroup(1 + n*span)
		workerRanks := make([]transport.Rank, 0, n)
		for i := 0; i < n; i++ {
			base := 1 + i*span
			worker := eps[base]
			workerRanks = append(workerRanks, worker.Rank())
			var llExpander []*transport.Endpoint
			if sc.LLPool > 0 {
				llExpander = eps[base+1 : base+span]
			}
			go centralized.NewWorker(worker, inst, llExpander).Run(0)
		}
		return centralized.NewCoordinator(eps[0], workerRanks).Run(inst, centralized.Options{Timeout: sc.Timeout})
	case "decentralized":
		n := sc.Expanders
		if n < 1 {
			n = 4
		}
		eps := transport.NewGroup(n)
		results := make(chan result.Run, n)
		for _, ep := range eps {
			ep := ep
			go func() {
				results <- decentralized.NewPeer(ep, inst).Run(decentralized.Options{W: sc.W, Timeout: sc.Timeout})
			}()
		}
		var out result.Run
		for range eps {
			out = <-results
		}
		return out
	default:
		return serial.Run(inst, serial.Options{Timeout: sc.Timeout})
	}
}

func printSummary(sc Scenario, runs []result.Run) {
	runtimes := make([]float64, len(runs))
	costs := make([]float64, 0, len(runs))
	successes := 0
	for i, r := range runs {
		runtimes[i] = r.RuntimeSec
		if r.Status == result.Success {
			successes++
			costs = append(costs, float64(r.Cost))
		}
	}

	mean := stat.Mean(runtimes, nil)
	var stddev float64
	if len(runtimes) > 1 {
		stddev = stat.StdDev(runtimes, nil)
	}

	fmt.Printf("%s: %d/%d succeeded, runtime mean=%.4fs stddev=%.4fs", sc.Name, successes, len(runs), mean, stddev)
	if len(costs) > 0 {
		fmt.Printf(", cost mean=%.2f", stat.Mean(costs, nil))
	}
	fmt.Println()
}
