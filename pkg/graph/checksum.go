package graph

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/dd0wney/roadgraph/pkg/directory"
	"github.com/dd0wney/roadgraph/pkg/logging"
)

// regionChecksumChunk bounds how much of a region is read into memory per
// hash update, so a large geometry heap doesn't require a single enormous
// buffer.
const regionChecksumChunk = 64 * 1024

// regionChecksum hashes a Directory's committed body with blake2b-256. It is
// a supplementary integrity signal on top of the class/encoder fingerprint
// checks: those catch format mismatches, this catches silent bit-rot or a
// region swapped out from under the store between flushes.
func regionChecksum(d directory.Directory) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a bad key, and nil is always valid.
		panic(err)
	}
	remaining := d.Capacity()
	buf := make([]byte, regionChecksumChunk)
	var offset int64
	for remaining > 0 {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		chunk := buf[:n]
		d.GetBytes(offset, chunk)
		h.Write(chunk)
		offset += n
		remaining -= n
	}
	return hex.EncodeToString(h.Sum(nil))
}

// verifyRegionChecksums recomputes checksums for all three regions and
// compares them against what was stamped at the last Flush. A mismatch is
// logged, not fatal: the class/encoder fingerprint and version checks are
// what LoadExisting treats as load-bearing.
func (e *Engine) verifyRegionChecksums() {
	for _, region := range []struct {
		name string
		dir  directory.Directory
	}{
		{"nodes", e.nodes},
		{"edges", e.edges},
		{"geometry", e.geo},
	} {
		key := "roadgraph.checksum." + region.name
		want, ok := e.properties.Get(key)
		if !ok {
			continue
		}
		got := regionChecksum(region.dir)
		if got != want {
			e.log.Warn("region checksum mismatch on load",
				logging.Component("graph"), logging.Operation("verify_checksum"), logging.Region(region.name))
		}
	}
}

// stampRegionChecksums recomputes and persists a checksum for every owned
// region. Called from Flush, after all three regions have committed.
func (e *Engine) stampRegionChecksums() {
	e.properties.Put("roadgraph.checksum.nodes", regionChecksum(e.nodes))
	e.properties.Put("roadgraph.checksum.edges", regionChecksum(e.edges))
	e.properties.Put("roadgraph.checksum.geometry", regionChecksum(e.geo))
}
