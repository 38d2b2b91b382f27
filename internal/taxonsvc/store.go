package taxonsvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by stores for an unknown ref
var ErrNotFound = errors.New("taxon not found")

// Store gives read access to taxa by ref
type Store interface {
	Get(ctx context.Context, ref string) (*Taxon, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// dataFile is the YAML document layout
type dataFile struct {
	Taxa []*Taxon `yaml:"taxa"`
}

// ParseTaxa decodes a YAML data file. Every taxon needs a unique ref.
func ParseTaxa(data []byte) ([]*Taxon, error) {
	var doc dataFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxa: %w", err)
	}

	seen := make(map[string]bool, len(doc.Taxa))
	for i, t := range doc.Taxa {
		if t == nil || strings.TrimSpace(t.Ref) == "" {
			return nil, fmt.Errorf("taxon %d: missing ref", i)
		}
		if seen[t.Ref] {
			return nil, fmt.Errorf("taxon %d: duplicate ref %q", i, t.Ref)
		}
		seen[t.Ref] = true
	}
	return doc.Taxa, nil
}

// LoadTaxa reads and parses a YAML data file
func LoadTaxa(path string) ([]*Taxon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxa: %w", err)
	}
	return ParseTaxa(data)
}

// MemoryStore keeps taxa in a map
type MemoryStore struct {
	mu   sync.RWMutex
	taxa map[string]*Taxon
}

// NewMemoryStore creates a store holding taxa
func NewMemoryStore(taxa []*Taxon) *MemoryStore {
	s := &MemoryStore{taxa: make(map[string]*Taxon, len(taxa))}
	for _, t := range taxa {
		s.taxa[t.Ref] = t
	}
	return s
}

// Get returns the taxon for ref
func (s *MemoryStore) Get(_ context.Context, ref string) (*Taxon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.taxa[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// Count returns the number of taxa
func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.taxa), nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	return nil
}

// IsSQLitePath reports whether path names a SQLite database file
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// OpenStore opens the data file at path: a SQLite database for .db,
// .sqlite and .sqlite3 files, a YAML document otherwise
func OpenStore(path string) (Store, error) {
	if IsSQLitePath(path) {
		return NewSQLiteStore(path)
	}
	taxa, err := LoadTaxa(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(taxa), nil
}
