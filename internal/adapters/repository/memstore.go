package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/woolshed/flockmark/internal/domain/model"
)

// MemStore is an in-memory Store. Each Replace rebuilds a rank order and an
// identifier index as immutable snapshots, so reads after a swap are lock-
// cheap and never observe a half-built run.
type MemStore struct {
	mu      sync.RWMutex
	animals []model.ScoredAnimal
	ranked  []int          // animal indices, best mark first
	byKey   map[string]int // internal id and identifiers -> animal index
}

// NewMemStore creates an empty result store.
func NewMemStore() *MemStore {
	return &MemStore{byKey: make(map[string]int)}
}

// Replace swaps in the results of a new run.
func (s *MemStore) Replace(_ context.Context, animals []model.ScoredAnimal) error {
	ranked := make([]int, len(animals))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return animals[ranked[a]].Mark > animals[ranked[b]].Mark
	})

	byKey := make(map[string]int, len(animals)*2)
	for i := range animals {
		a := &animals[i]
		for _, key := range []string{a.ID, a.EID, a.VID, a.QRID, a.Barcode, a.Tattoo} {
			if key == "" {
				continue
			}
			if _, taken := byKey[key]; !taken {
				byKey[key] = i
			}
		}
	}

	s.mu.Lock()
	s.animals = animals
	s.ranked = ranked
	s.byKey = byKey
	s.mu.Unlock()
	return nil
}

// All returns every scored animal in creation order.
func (s *MemStore) All(_ context.Context) []model.ScoredAnimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ScoredAnimal, len(s.animals))
	copy(out, s.animals)
	return out
}

// TopN returns the n highest-marked animals.
func (s *MemStore) TopN(_ context.Context, n int) ([]model.ScoredAnimal, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.ranked) {
		n = len(s.ranked)
	}
	out := make([]model.ScoredAnimal, 0, n)
	for _, idx := range s.ranked[:n] {
		out = append(out, s.animals[idx])
	}
	return out, nil
}

// Get looks an animal up by internal id or any stored identifier.
func (s *MemStore) Get(_ context.Context, key string) (model.ScoredAnimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byKey[key]
	if !ok {
		return model.ScoredAnimal{}, ErrNotFound
	}
	return s.animals[idx], nil
}

// Count returns the number of animals in the current run.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.animals)
}

// Classifications returns animal counts per classification tier.
func (s *MemStore) Classifications(_ context.Context) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int)
	for i := range s.animals {
		out[s.animals[i].Classification]++
	}
	return out
}
