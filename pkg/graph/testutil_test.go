package graph

import (
	"testing"

	"github.com/dd0wney/roadgraph/pkg/directory"
	"github.com/dd0wney/roadgraph/pkg/encoding"
	"github.com/dd0wney/roadgraph/pkg/logging"
	"github.com/dd0wney/roadgraph/pkg/nameidx"
	"github.com/dd0wney/roadgraph/pkg/propstore"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := Config{
		Nodes:      directory.NewRAMDirectory("nodes"),
		Edges:      directory.NewRAMDirectory("edges"),
		Geometry:   directory.NewRAMDirectory("geometry"),
		Names:      nameidx.New(),
		Properties: mustPropstore(t),
		Codec:      encoding.NewDefaultManager("car"),
	}
	e := New(logging.NewDefaultLogger())
	if err := e.Create(cfg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return e
}

// newTestEngineStandalone builds an Engine without a *testing.T, for gopter
// property closures that construct a fresh instance per generated sample.
// It never calls Flush, so the properties path need not exist or be unique.
func newTestEngineStandalone() *Engine {
	cfg := Config{
		Nodes:      directory.NewRAMDirectory("nodes"),
		Edges:      directory.NewRAMDirectory("edges"),
		Geometry:   directory.NewRAMDirectory("geometry"),
		Names:      nameidx.New(),
		Properties: mustStandaloneStore(),
		Codec:      encoding.NewDefaultManager("car"),
	}
	e := New(logging.NewDefaultLogger())
	if err := e.Create(cfg); err != nil {
		panic(err)
	}
	return e
}

func mustStandaloneStore() *propstore.Store {
	s, err := propstore.Open("/nonexistent-roadgraph-property-test.yml")
	if err != nil {
		panic(err)
	}
	return s
}

func mustPropstore(t *testing.T) *propstore.Store {
	t.Helper()
	return mustPropstoreAt(t, t.TempDir()+"/properties.yml")
}

func mustPropstoreAt(t *testing.T, path string) *propstore.Store {
	t.Helper()
	s, err := propstore.Open(path)
	if err != nil {
		t.Fatalf("propstore.Open: %v", err)
	}
	return s
}

// newSharedRAM creates a RAMDirectory suitable for reuse across a Flush +
// Close + LoadExisting cycle within the same process (RAMDirectory's Close
// is a no-op, so the same instance can be handed to a second Engine).
func newSharedRAM(t *testing.T, name string) *directory.RAMDirectory {
	t.Helper()
	return directory.NewRAMDirectory(name)
}

func newEngineOn(t *testing.T, propsPath string, nodes, edges, geo *directory.RAMDirectory) *Engine {
	t.Helper()
	e := New(logging.NewDefaultLogger())
	cfg := Config{
		Nodes:      nodes,
		Edges:      edges,
		Geometry:   geo,
		Names:      nameidx.New(),
		Properties: mustPropstoreAt(t, propsPath),
		Codec:      encoding.NewDefaultManager("car"),
	}
	if err := e.Create(cfg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return e
}

func loadEngineOn(t *testing.T, propsPath string, nodes, edges, geo *directory.RAMDirectory) *Engine {
	t.Helper()
	e := New(logging.NewDefaultLogger())
	cfg := Config{
		Nodes:      nodes,
		Edges:      edges,
		Geometry:   geo,
		Names:      nameidx.New(),
		Properties: mustPropstoreAt(t, propsPath),
		Codec:      encoding.NewDefaultManager("car"),
	}
	if err := e.LoadExisting(cfg); err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	return e
}
