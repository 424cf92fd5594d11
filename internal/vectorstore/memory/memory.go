package memory

import (
	"fmt"
	"sync"

	"talkrec/internal/domain"
)

// Storage is an in-memory vector store keyed by scheme. Sets are copied on the
// way in and out so callers cannot mutate stored vectors.
type Storage struct {
	mu   sync.RWMutex
	sets map[domain.Scheme]domain.VectorSet
}

func NewStorage() *Storage { return &Storage{sets: make(map[domain.Scheme]domain.VectorSet)} }

func (s *Storage) Save(set domain.VectorSet) error {
	if !set.Scheme.IsValid() {
		return fmt.Errorf("save vectors: %w: %q", domain.ErrUnsupportedScheme, string(set.Scheme))
	}
	if set.Len() == 0 {
		return fmt.Errorf("save vectors: %w: refusing to store an empty vector set", domain.ErrEmptyCorpus)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.Scheme] = clone(set)
	return nil
}

func (s *Storage) Load(scheme domain.Scheme) (domain.VectorSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[scheme]
	if !ok {
		return domain.VectorSet{}, fmt.Errorf("%w for scheme %q", domain.ErrNoVectors, scheme)
	}
	return clone(set), nil
}

func clone(set domain.VectorSet) domain.VectorSet {
	out := domain.VectorSet{Scheme: set.Scheme, Entries: make([]domain.Entry, len(set.Entries))}
	for i, e := range set.Entries {
		vec := make(domain.SparseVector, len(e.Vector))
		for k, v := range e.Vector {
			vec[k] = v
		}
		out.Entries[i] = domain.Entry{ID: e.ID, Vector: vec}
	}
	return out
}
