// Profiling:
// go build ./cmd/navbench
// ./navbench -profile cpu
// go tool pprof -http=":8000" ./navbench cpu.pprof

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/config"
	"github.com/milk9111/isocore/internal/world"
	"github.com/milk9111/isocore/nav"
	"github.com/pkg/profile"
)

func main() {
	mode := flag.String("profile", "cpu", "cpu, mem or none")
	rounds := flag.Int("rounds", 200, "searches to run")
	walls := flag.Int("walls", 40, "random walls to place")
	seed := flag.Uint64("seed", 1, "obstacle layout seed")
	flag.Parse()

	var p interface{ Stop() }
	switch *mode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	case "none":
	default:
		log.Fatalf("unknown profile mode %q", *mode)
	}

	explored, elapsed, err := run(*rounds, *walls, *seed)
	if p != nil {
		p.Stop()
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d searches, %d nodes explored, %v per search\n", *rounds, explored, elapsed/time.Duration(max(*rounds, 1)))
}

func run(rounds, walls int, seed uint64) (int, time.Duration, error) {
	w, err := world.New(config.Defaults(), nil, cp.Vector{})
	if err != nil {
		return 0, 0, err
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	for range walls {
		cell := cp.Vector{X: float64(rng.IntN(12) - 6), Y: float64(rng.IntN(12) - 6)}
		if cell == (cp.Vector{}) {
			continue
		}
		if _, err := w.AddWall(cell); err != nil {
			return 0, 0, err
		}
	}
	w.Scene.Entities().Update()

	grid := w.Scene.Grid()
	graph := w.Scene.Graph()
	start := grid.CellCentre(cp.Vector{})

	var explored int
	begin := time.Now()
	for i := range rounds {
		goal := grid.CellCentre(cp.Vector{X: float64(i%13 - 6), Y: float64(i/13%13 - 6)})
		cameFrom := graph.AStar(start, goal)
		explored += len(cameFrom)
		_ = nav.ConstructPath(cameFrom, start, goal)
	}
	return explored, time.Since(begin), nil
}
