// Package directory implements the byte-addressable store contract that the
// packed-array graph engine (pkg/graph) is built on: random-access read/write
// of 32-bit integers and byte spans at arbitrary offsets, a fixed small
// header area, capacity growth, and flush/close lifecycle. The engine itself
// never assumes memory-mapped vs. heap-resident storage; that choice, and
// whatever compression or remote-backup is layered on top, lives entirely in
// this package.
package directory

import "encoding/binary"

// ByteOrder is the fixed byte order used for all persisted integers across
// every Directory implementation in this package, so regions written by one
// backend can be read back by another.
var ByteOrder = binary.LittleEndian

// Directory is the byte-addressable store contract a single graph region
// (nodes, edges, or geometry) is built on. Implementations are not expected
// to be safe for concurrent writers; see the single-writer concurrency
// contract of the engine that consumes them.
type Directory interface {
	// Create allocates a fresh region with the given header size and initial
	// body capacity, both in bytes.
	Create(headerBytes, initialBodyBytes int) error

	// LoadExisting attempts to open a previously flushed region. It returns
	// false (with a nil error) if no region exists yet.
	LoadExisting(headerBytes int) (bool, error)

	// Flush commits all buffered writes so they survive a Close/reopen.
	Flush() error

	// Close releases any resources (file handles, mappings) held by the
	// region. Uncommitted writes since the last Flush may be lost.
	Close() error

	// Capacity reports the current body capacity in bytes (header excluded).
	Capacity() int64

	// IncCapacity grows the body to at least newBytes. It returns whether
	// capacity actually changed; growth policy (doubling, fixed-size
	// segments, …) is entirely up to the implementation.
	IncCapacity(newBytes int64) (bool, error)

	// TrimTo shrinks the body capacity to exactly bytes, discarding
	// anything beyond it. SnappyDirectory uses it to fit the backing
	// region to the compressed image on Flush.
	TrimTo(bytes int64) error

	// GetInt reads a little-endian int32 at the given body byte offset.
	GetInt(offset int64) int32
	// SetInt writes a little-endian int32 at the given body byte offset.
	SetInt(offset int64, value int32)

	// GetBytes copies len(buf) bytes starting at offset into buf.
	GetBytes(offset int64, buf []byte)
	// SetBytes copies buf into the body starting at offset.
	SetBytes(offset int64, buf []byte)

	// GetHeader reads a little-endian int32 from the header area at
	// slotOffset (a byte offset within the header, not the body).
	GetHeader(slotOffset int) int32
	// SetHeader writes a little-endian int32 into the header area.
	SetHeader(slotOffset int, value int32)

	// SetSegmentSize hints the preferred growth increment in bytes; purely
	// advisory, implementations may ignore it.
	SetSegmentSize(bytes int)

	// CopyTo duplicates this region's header and body into other, which
	// must already be Create'd with at least this region's header size.
	CopyTo(other Directory) error

	// Name identifies the region for logging/metrics (e.g. "nodes", "edges",
	// "geometry").
	Name() string
}
