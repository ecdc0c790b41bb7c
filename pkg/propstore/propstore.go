// Package propstore implements the Properties contract: a small persisted
// string map used for version and fingerprint checks across flush/load
// cycles, serialized the way the teacher serializes its own small
// configuration documents — with gopkg.in/yaml.v3.
package propstore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineVersion is stamped into every store by PutCurrentVersions.
const EngineVersion = "roadgraph-1"

// Store is a persisted key/value string map backed by a single YAML file.
type Store struct {
	path   string
	values map[string]string
}

// Open loads path if it exists, or starts an empty in-memory store
// otherwise (the caller decides whether a missing file is an error).
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("propstore: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("propstore: parse %s: %w", path, err)
	}
	return s, nil
}

// Put sets key to value in memory; call Flush to persist.
func (s *Store) Put(key, value string) {
	s.values[key] = value
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// PutCurrentVersions stamps the running engine's version and the given
// class fingerprint, the pair §4.5 requires to detect an incompatible
// reload.
func (s *Store) PutCurrentVersions(classFingerprint int32) {
	s.Put("roadgraph.version", EngineVersion)
	s.Put("roadgraph.fingerprint", fmt.Sprintf("%d", classFingerprint))
}

// CheckVersions verifies the stored version/fingerprint pair matches the
// running engine. If strict is false, a missing properties file (fresh
// store) is tolerated; any mismatch is always fatal.
func (s *Store) CheckVersions(classFingerprint int32, strict bool) error {
	version, hasVersion := s.Get("roadgraph.version")
	fingerprint, hasFingerprint := s.Get("roadgraph.fingerprint")
	if !hasVersion || !hasFingerprint {
		if strict {
			return fmt.Errorf("propstore: missing version/fingerprint properties")
		}
		return nil
	}
	if version != EngineVersion {
		return fmt.Errorf("propstore: version mismatch: store has %q, engine is %q", version, EngineVersion)
	}
	want := fmt.Sprintf("%d", classFingerprint)
	if fingerprint != want {
		return fmt.Errorf("propstore: fingerprint mismatch: store has %s, engine expects %s", fingerprint, want)
	}
	return nil
}

// Flush persists the store to disk as YAML.
func (s *Store) Flush() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("propstore: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("propstore: write %s: %w", s.path, err)
	}
	return nil
}
