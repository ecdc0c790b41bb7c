// Package nameidx implements the NameIndex contract: an append-only
// interning dictionary mapping a non-negative 32-bit id to a string and
// back. It is one of the graph engine's external collaborators — the edge
// table only ever stores the id, never the string.
package nameidx

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// emptyID is the id put("") always resolves to, matching the contract that
// the empty string is id 0.
const emptyID int32 = 0

// Index is an append-only string<->id interning dictionary. Safe for
// concurrent readers; Put must not race with other Puts (same single-writer
// discipline as the graph engine itself).
type Index struct {
	mu      sync.RWMutex
	byHash  map[uint64][]int32 // hash(s) -> candidate ids, for collision handling
	strings []string           // id -> string, append-only
}

// New creates an Index pre-seeded so Put("") == 0.
func New() *Index {
	idx := &Index{
		byHash:  make(map[uint64][]int32),
		strings: []string{""},
	}
	idx.byHash[xxhash.Sum64String("")] = []int32{emptyID}
	return idx
}

// Put interns s, returning its id. Put("") is always 0. Repeated Puts of the
// same string return the same id; Put never removes or renumbers entries.
func (idx *Index) Put(s string) int32 {
	if s == "" {
		return emptyID
	}

	h := xxhash.Sum64String(s)

	idx.mu.RLock()
	for _, candidate := range idx.byHash[h] {
		if idx.strings[candidate] == s {
			idx.mu.RUnlock()
			return candidate
		}
	}
	idx.mu.RUnlock()

	idx.mu.Lock()
	defer idx.mu.Unlock()
	// Re-check under the write lock: another Put may have interned s while
	// we waited.
	for _, candidate := range idx.byHash[h] {
		if idx.strings[candidate] == s {
			return candidate
		}
	}
	id := int32(len(idx.strings))
	idx.strings = append(idx.strings, s)
	idx.byHash[h] = append(idx.byHash[h], id)
	return id
}

// Get returns the string interned under id, or false if id is out of range.
func (idx *Index) Get(id int32) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if id < 0 || int(id) >= len(idx.strings) {
		return "", false
	}
	return idx.strings[id], true
}

// Len reports how many distinct strings (including the empty string) have
// been interned.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.strings)
}
