package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Component field helpers for common component names
func Component(name string) Field {
	return String("component", name)
}

// NodeID and EdgeID take int32, matching the packed-array engine's record
// ids (NoNode/NoEdge sentinels included), not a generic uint64 entity id.
func NodeID(id int32) Field {
	return Int("node_id", int(id))
}

func EdgeID(id int32) Field {
	return Int("edge_id", int(id))
}

// Region identifies which Directory-backed region (nodes/edges/geometry) a
// log line concerns.
func Region(name string) Field {
	return String("region", name)
}

// GeoRef identifies a geometry heap word offset (0 = no geometry).
func GeoRef(ref int32) Field {
	return Int("geo_ref", int(ref))
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
