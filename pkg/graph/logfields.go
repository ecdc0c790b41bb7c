package graph

import (
	"time"

	"github.com/dd0wney/roadgraph/pkg/logging"
)

func logFieldsEdge(id, a, b int32) []logging.Field {
	return []logging.Field{
		logging.Component("graph"),
		logging.Operation("add_edge"),
		logging.EdgeID(id),
		logging.Int("node_a", int(a)),
		logging.Int("node_b", int(b)),
	}
}

func logFieldsCompaction(removed, nodeCountAfter int32, elapsed time.Duration) []logging.Field {
	return []logging.Field{
		logging.Component("graph"),
		logging.Operation("optimize"),
		logging.Count(int(removed)),
		logging.Int("node_count", int(nodeCountAfter)),
		logging.Latency(elapsed),
	}
}
