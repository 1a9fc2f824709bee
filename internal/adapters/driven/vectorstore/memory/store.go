// Package memory provides an in-process vector index using brute-force
// cosine similarity. It is the default store for tests and credential-free
// runs.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Store keeps index entries in memory keyed by id.
type Store struct {
	mu         sync.RWMutex
	dimensions int
	entries    map[string]domain.IndexEntry
}

// New creates an unprovisioned in-memory store.
func New() *Store {
	return &Store{}
}

// Provision declares the vector dimensionality. Idempotent for the same
// dimensionality; changing it on a non-empty store is rejected.
func (s *Store) Provision(_ context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("memory store: invalid dimensions %d", dimensions)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimensions != 0 && s.dimensions != dimensions && len(s.entries) > 0 {
		return fmt.Errorf("memory store: collection already provisioned with dimensions %d", s.dimensions)
	}
	s.dimensions = dimensions
	if s.entries == nil {
		s.entries = make(map[string]domain.IndexEntry)
	}
	return nil
}

// Upsert writes entries in one batch, replacing any prior entry per id.
func (s *Store) Upsert(_ context.Context, entries []domain.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimensions == 0 {
		return domain.ErrIndexNotProvisioned
	}
	for _, e := range entries {
		if len(e.Vector) != s.dimensions {
			return fmt.Errorf("memory store: entry %s has dimension %d, want %d", e.ID, len(e.Vector), s.dimensions)
		}
	}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

// Query returns up to topK entries by descending cosine similarity.
// Equal scores order by ascending id so repeated queries are reproducible.
func (s *Store) Query(_ context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimensions == 0 {
		return nil, domain.ErrIndexNotProvisioned
	}
	if topK <= 0 {
		return nil, fmt.Errorf("memory store: invalid topK %d", topK)
	}

	matches := make([]domain.Match, 0, len(s.entries))
	for id, e := range s.entries {
		m := domain.Match{ID: id, Score: cosine(vector, e.Vector)}
		if includeMetadata {
			m.Metadata = e.Metadata
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// Clear removes every entry, keeping the provisioned dimensionality.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimensions == 0 {
		return domain.ErrIndexNotProvisioned
	}
	s.entries = make(map[string]domain.IndexEntry)
	return nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close releases resources.
func (s *Store) Close() error { return nil }

// cosine computes true cosine similarity; it does not assume the stored
// vectors are normalised, since real providers may emit raw magnitudes.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
