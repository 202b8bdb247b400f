package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/ssl"
)

// Store holds profiles in memory and persists them to a YAML file. It
// also owns the SSL mode registry handed to every profile-driven
// operation, so a service wires exactly one registry at startup.
type Store struct {
	mu       sync.RWMutex
	path     string
	profiles map[string]*Profile
	registry *ssl.Registry
}

// storeFile is the on-disk layout.
type storeFile struct {
	Profiles []*Profile `yaml:"profiles"`
}

// NewStore creates a store backed by the YAML file at path. A missing
// file is an empty store, not an error. A nil registry selects the
// default one.
func NewStore(path string, reg *ssl.Registry) (*Store, error) {
	if reg == nil {
		reg = ssl.DefaultRegistry()
	}
	s := &Store{
		path:     path,
		profiles: make(map[string]*Profile),
		registry: reg,
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var file storeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profiles file %s: %w", path, err)
	}
	for _, p := range file.Profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("profile %q has no id", p.Name)
		}
		s.profiles[p.ID] = p
	}
	return s, nil
}

// Registry returns the SSL mode registry this store was wired with.
func (s *Store) Registry() *ssl.Registry {
	return s.registry
}

// Get returns the profile with the given ID, or nil.
func (s *Store) Get(id string) *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[id]
}

// List returns all profiles.
func (s *Store) List() []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out
}

// Save validates and upserts a profile, then persists the store. The
// profile's SSL mode, when present, must be valid for its engine.
func (s *Store) Save(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if modeStr := engine.RecordValueOrDefault(p.Advanced, ssl.KeySSLMode, ""); modeStr != "" {
		mode := s.registry.Normalize(p.Type, modeStr)
		if !s.registry.Validate(p.Type, mode) {
			return fmt.Errorf("ssl mode %q is not valid for %s", modeStr, p.Type)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return s.persistLocked()
}

// Delete removes a profile and persists the store. Removing an unknown ID
// is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	file := storeFile{Profiles: make([]*Profile, 0, len(s.profiles))}
	for _, p := range s.profiles {
		file.Profiles = append(file.Profiles, p)
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profiles dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write profiles file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace profiles file: %w", err)
	}
	return nil
}
