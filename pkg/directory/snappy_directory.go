package directory

import (
	"fmt"

	"github.com/golang/snappy"
)

// SnappyDirectory decorates a Directory so its body is snappy-compressed on
// Flush and decompressed on LoadExisting, the same codec the teacher's
// CompressedWAL uses for its batched segments. Random-access reads/writes
// between flushes go straight to an uncompressed in-memory working copy —
// snappy has no cheap random-access story, so compression is only ever a
// property of the on-disk image, never of the live body the engine mutates.
type SnappyDirectory struct {
	backing Directory
	ram     *RAMDirectory
}

// NewSnappyDirectory wraps backing with snappy compression. backing is used
// only for its header slots and for the compressed body image; all body
// reads/writes during normal operation hit the uncompressed in-memory copy.
func NewSnappyDirectory(backing Directory) *SnappyDirectory {
	return &SnappyDirectory{backing: backing, ram: NewRAMDirectory(backing.Name())}
}

func (d *SnappyDirectory) Name() string { return d.backing.Name() }

func (d *SnappyDirectory) Create(headerBytes, initialBodyBytes int) error {
	if err := d.backing.Create(headerBytes, 4); err != nil {
		return err
	}
	return d.ram.Create(headerBytes, initialBodyBytes)
}

func (d *SnappyDirectory) LoadExisting(headerBytes int) (bool, error) {
	ok, err := d.backing.LoadExisting(headerBytes)
	if err != nil || !ok {
		return ok, err
	}
	compressedLen := d.backing.Capacity()
	compressed := make([]byte, compressedLen)
	d.backing.GetBytes(0, compressed)
	body, err := snappy.Decode(nil, compressed)
	if err != nil {
		return false, fmt.Errorf("snappy directory %s: decode: %w", d.Name(), err)
	}
	if err := d.ram.Create(headerBytes, len(body)); err != nil {
		return false, err
	}
	d.ram.SetBytes(0, body)
	for i := 0; i < headerBytes; i += 4 {
		d.ram.SetHeader(i, d.backing.GetHeader(i))
	}
	return true, nil
}

// Flush compresses the live body and writes it through to the backing
// Directory, then flushes that.
func (d *SnappyDirectory) Flush() error {
	body := make([]byte, d.ram.Capacity())
	d.ram.GetBytes(0, body)
	compressed := snappy.Encode(nil, body)
	if _, err := d.backing.IncCapacity(int64(len(compressed))); err != nil {
		return err
	}
	d.backing.SetBytes(0, compressed)
	if err := d.backing.TrimTo(int64(len(compressed))); err != nil {
		return err
	}
	for i := 0; i < len(d.ram.header); i += 4 {
		d.backing.SetHeader(i, d.ram.GetHeader(i))
	}
	return d.backing.Flush()
}

func (d *SnappyDirectory) Close() error { return d.backing.Close() }

func (d *SnappyDirectory) Capacity() int64 { return d.ram.Capacity() }

func (d *SnappyDirectory) IncCapacity(newBytes int64) (bool, error) {
	return d.ram.IncCapacity(newBytes)
}

func (d *SnappyDirectory) TrimTo(bytes int64) error { return d.ram.TrimTo(bytes) }

func (d *SnappyDirectory) GetInt(offset int64) int32          { return d.ram.GetInt(offset) }
func (d *SnappyDirectory) SetInt(offset int64, value int32)   { d.ram.SetInt(offset, value) }
func (d *SnappyDirectory) GetBytes(offset int64, buf []byte)  { d.ram.GetBytes(offset, buf) }
func (d *SnappyDirectory) SetBytes(offset int64, buf []byte)  { d.ram.SetBytes(offset, buf) }
func (d *SnappyDirectory) GetHeader(slotOffset int) int32     { return d.ram.GetHeader(slotOffset) }
func (d *SnappyDirectory) SetHeader(slotOffset int, v int32)  { d.ram.SetHeader(slotOffset, v) }
func (d *SnappyDirectory) SetSegmentSize(bytes int)           { d.ram.SetSegmentSize(bytes) }

func (d *SnappyDirectory) CopyTo(other Directory) error { return d.ram.CopyTo(other) }
