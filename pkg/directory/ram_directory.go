package directory

import "fmt"

// defaultSegmentSize is the growth increment used when no explicit segment
// size has been set, mirroring the teacher's amortized-allocation comments
// on the map-based GraphStorage fields it replaces here with a flat slice.
const defaultSegmentSize = 1 << 20 // 1 MiB

// RAMDirectory is an in-memory Directory backed by a growable []byte. It
// never touches disk; flush/close are no-ops beyond bookkeeping. Capacity
// grows by rounding up to a multiple of the configured segment size, never
// shrinking except via TrimTo, so repeated ensure-capacity calls during bulk
// construction amortize to O(1).
type RAMDirectory struct {
	name        string
	header      []byte
	body        []byte
	capacity    int64 // logical capacity, <= len(body)
	segmentSize int
}

// NewRAMDirectory creates an unconfigured RAMDirectory; call Create or
// LoadExisting before use.
func NewRAMDirectory(name string) *RAMDirectory {
	return &RAMDirectory{name: name, segmentSize: defaultSegmentSize}
}

func (d *RAMDirectory) Name() string { return d.name }

func (d *RAMDirectory) Create(headerBytes, initialBodyBytes int) error {
	d.header = make([]byte, headerBytes)
	d.body = make([]byte, roundUp(initialBodyBytes, d.segmentSize))
	d.capacity = int64(initialBodyBytes)
	return nil
}

// LoadExisting on a pure RAMDirectory has nothing to reload from disk: an
// in-memory region that was never Create'd in this process has no prior
// state, so it reports false and callers fall back to Create. An instance
// that was already Create'd reports true and keeps its header and body, so
// the same instance can be handed to a second Engine.
func (d *RAMDirectory) LoadExisting(headerBytes int) (bool, error) {
	if d.header == nil {
		return false, nil
	}
	return true, nil
}

func (d *RAMDirectory) Flush() error { return nil }
func (d *RAMDirectory) Close() error { return nil }

func (d *RAMDirectory) Capacity() int64 { return d.capacity }

func (d *RAMDirectory) IncCapacity(newBytes int64) (bool, error) {
	if newBytes <= d.capacity {
		return false, nil
	}
	if int64(len(d.body)) < newBytes {
		grown := make([]byte, roundUp(int(newBytes), d.segmentSize))
		copy(grown, d.body)
		d.body = grown
	}
	d.capacity = newBytes
	return true, nil
}

func (d *RAMDirectory) TrimTo(bytes int64) error {
	if bytes > int64(len(d.body)) {
		return fmt.Errorf("directory %s: cannot trim to %d, only %d allocated", d.name, bytes, len(d.body))
	}
	d.capacity = bytes
	d.body = d.body[:roundUp(int(bytes), d.segmentSize)]
	return nil
}

func (d *RAMDirectory) GetInt(offset int64) int32 {
	return int32(ByteOrder.Uint32(d.body[offset : offset+4]))
}

func (d *RAMDirectory) SetInt(offset int64, value int32) {
	ByteOrder.PutUint32(d.body[offset:offset+4], uint32(value))
}

func (d *RAMDirectory) GetBytes(offset int64, buf []byte) {
	copy(buf, d.body[offset:offset+int64(len(buf))])
}

func (d *RAMDirectory) SetBytes(offset int64, buf []byte) {
	copy(d.body[offset:offset+int64(len(buf))], buf)
}

func (d *RAMDirectory) GetHeader(slotOffset int) int32 {
	return int32(ByteOrder.Uint32(d.header[slotOffset : slotOffset+4]))
}

func (d *RAMDirectory) SetHeader(slotOffset int, value int32) {
	ByteOrder.PutUint32(d.header[slotOffset:slotOffset+4], uint32(value))
}

func (d *RAMDirectory) SetSegmentSize(bytes int) {
	if bytes > 0 {
		d.segmentSize = bytes
	}
}

func (d *RAMDirectory) CopyTo(other Directory) error {
	ram, ok := other.(*RAMDirectory)
	if !ok {
		// Fall back to the generic byte-span path for heterogeneous pairs.
		if _, err := other.IncCapacity(d.capacity); err != nil {
			return err
		}
		for i := 0; i < len(d.header); i += 4 {
			other.SetHeader(i, d.GetHeader(i))
		}
		other.SetBytes(0, d.body[:d.capacity])
		return nil
	}
	ram.header = append([]byte(nil), d.header...)
	ram.body = append([]byte(nil), d.body...)
	ram.capacity = d.capacity
	return nil
}

func roundUp(n, segment int) int {
	if segment <= 0 {
		segment = defaultSegmentSize
	}
	if n <= 0 {
		return segment
	}
	segments := (n + segment - 1) / segment
	return segments * segment
}
