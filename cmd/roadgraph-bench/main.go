// Command roadgraph-bench builds a synthetic grid graph in memory and times
// bulk edge insertion, a full adjacency traversal, and an Optimize pass over
// a configurable removal fraction. It points at this module's own Engine,
// not a routing layer — there is no shortest-path query here.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/dd0wney/roadgraph/pkg/directory"
	"github.com/dd0wney/roadgraph/pkg/encoding"
	"github.com/dd0wney/roadgraph/pkg/graph"
	"github.com/dd0wney/roadgraph/pkg/logging"
	"github.com/dd0wney/roadgraph/pkg/nameidx"
	"github.com/dd0wney/roadgraph/pkg/propstore"
)

func main() {
	gridSize := flag.Int("grid", 200, "side length of the synthetic node grid (grid^2 nodes)")
	removeFraction := flag.Float64("remove-fraction", 0.05, "fraction of nodes to mark removed before optimize")
	seed := flag.Int64("seed", 1, "random seed for removal selection")
	flag.Parse()

	fmt.Printf("roadgraph-bench\n===============\n\n")
	fmt.Printf("grid %dx%d (%d nodes, ~%d edges)\n\n", *gridSize, *gridSize, *gridSize**gridSize, edgeEstimate(*gridSize))

	log := logging.NewDefaultLogger()
	log.SetLevel(logging.WarnLevel)

	e := graph.New(log)
	cfg := graph.Config{
		Nodes:      directory.NewRAMDirectory("nodes"),
		Edges:      directory.NewRAMDirectory("edges"),
		Geometry:   directory.NewRAMDirectory("geometry"),
		Names:      nameidx.New(),
		Properties: mustOpenProperties(),
		Codec:      encoding.NewDefaultManager("car"),
	}
	if err := e.Create(cfg); err != nil {
		fmt.Printf("create failed: %v\n", err)
		return
	}
	defer e.Close()

	buildStart := time.Now()
	edgeCount := buildGrid(e, *gridSize)
	buildElapsed := time.Since(buildStart)
	fmt.Printf("build:     %d edges in %s (%.0f edges/sec)\n",
		edgeCount, buildElapsed, float64(edgeCount)/buildElapsed.Seconds())

	traverseStart := time.Now()
	visited := traverseAll(e)
	traverseElapsed := time.Since(traverseStart)
	fmt.Printf("traverse:  %d edge-visits in %s\n", visited, traverseElapsed)

	rng := rand.New(rand.NewSource(*seed))
	nodeCount := e.NodeCount()
	removed := 0
	for i := int32(0); i < nodeCount; i++ {
		if rng.Float64() < *removeFraction {
			e.MarkNodeRemoved(i)
			removed++
		}
	}
	fmt.Printf("marked:    %d of %d nodes for removal\n", removed, nodeCount)

	optimizeStart := time.Now()
	if err := e.Optimize(); err != nil {
		fmt.Printf("optimize failed: %v\n", err)
		return
	}
	optimizeElapsed := time.Since(optimizeStart)
	fmt.Printf("optimize:  %s (node_count now %d)\n", optimizeElapsed, e.NodeCount())

	stats := e.Stats()
	fmt.Printf("\nfinal stats: nodes=%d edges=%d tombstones=%d geo_words=%d\n",
		stats.NodeCount, stats.EdgeCount, stats.TombstoneCount, stats.GeoWordsUsed)
}

// buildGrid inserts a gridSize x gridSize mesh, connecting each node to its
// right and down neighbors, and returns the number of edges inserted.
func buildGrid(e *graph.Engine, gridSize int) int {
	flags := encoding.NewDefaultManager("car").DefaultFlags(true)
	count := 0
	idx := func(r, c int) int32 { return int32(r*gridSize + c) }

	for r := 0; r < gridSize; r++ {
		for c := 0; c < gridSize; c++ {
			e.SetNode(idx(r, c), float64(r)*0.001, float64(c)*0.001)
		}
	}
	for r := 0; r < gridSize; r++ {
		for c := 0; c < gridSize; c++ {
			if c+1 < gridSize {
				e.AddEdge(idx(r, c), idx(r, c+1), 100, flags)
				count++
			}
			if r+1 < gridSize {
				e.AddEdge(idx(r, c), idx(r+1, c), 100, flags)
				count++
			}
		}
	}
	return count
}

func traverseAll(e *graph.Engine) int {
	visits := 0
	x := e.NewExplorer()
	for n := int32(0); n < e.NodeCount(); n++ {
		x.SetBaseNode(n)
		for {
			ok, err := x.Next(graph.AcceptAll)
			if err != nil || !ok {
				break
			}
			visits++
		}
	}
	return visits
}

func edgeEstimate(gridSize int) int {
	return 2*gridSize*gridSize - 2*gridSize
}

func mustOpenProperties() *propstore.Store {
	s, err := propstore.Open("/tmp/roadgraph-bench-properties.yml")
	if err != nil {
		panic(err)
	}
	return s
}
