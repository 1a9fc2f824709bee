// Package chromem provides a vector index backed by the embedded chromem-go
// database. With a path it persists between runs; without one it lives in
// memory.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Store wraps a chromem-go collection.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	dimensions int
}

// New creates a chromem-backed store for the named collection. An empty
// path selects the in-memory database.
func New(path, collection string) (*Store, error) {
	if collection == "" {
		collection = "ragpipe"
	}

	var (
		db  *chromem.DB
		err error
	)
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("chromem: open %s: %w", path, err)
		}
	}

	s := &Store{db: db, name: collection}

	// A persisted collection from an earlier provision is picked up as-is;
	// its dimensionality is adopted from the first upserted batch.
	if c := db.GetCollection(collection, nil); c != nil {
		s.collection = c
	}
	return s, nil
}

// Provision creates the collection and records the dimensionality.
func (s *Store) Provision(_ context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("chromem: invalid dimensions %d", dimensions)
	}
	if s.collection != nil && s.dimensions != 0 && s.dimensions != dimensions {
		return fmt.Errorf("chromem: collection %s already provisioned with dimensions %d", s.name, s.dimensions)
	}

	metadata := map[string]string{
		"hnsw:space": "cosine",
		"dimensions": strconv.Itoa(dimensions),
	}
	c, err := s.db.GetOrCreateCollection(s.name, metadata, nil)
	if err != nil {
		return fmt.Errorf("chromem: create collection: %w", err)
	}
	s.collection = c
	s.dimensions = dimensions
	return nil
}

// Upsert writes the batch. chromem has no replace primitive, so existing
// ids are deleted before the add to keep upsert idempotent.
func (s *Store) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	if s.collection == nil {
		return domain.ErrIndexNotProvisioned
	}
	if len(entries) == 0 {
		return nil
	}

	// After a restart the recorded dimensionality is unknown until the
	// first batch arrives; adopt it then.
	if s.dimensions == 0 {
		s.dimensions = len(entries[0].Vector)
	}

	ids := make([]string, len(entries))
	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		if len(e.Vector) != s.dimensions {
			return fmt.Errorf("chromem: entry %s has dimension %d, want %d", e.ID, len(e.Vector), s.dimensions)
		}
		ids[i] = e.ID
		docs[i] = chromem.Document{
			ID:        e.ID,
			Metadata:  e.Metadata,
			Embedding: e.Vector,
			Content:   e.Metadata[domain.MetaText],
		}
	}

	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("chromem: delete prior entries: %w", err)
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem: add documents: %w", err)
	}
	return nil
}

// Query returns up to topK matches by cosine similarity.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Match, error) {
	if s.collection == nil {
		return nil, domain.ErrIndexNotProvisioned
	}
	// chromem rejects nResults greater than the collection size.
	if count := s.collection.Count(); count < topK {
		topK = count
	}
	if topK <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	matches := make([]domain.Match, len(results))
	for i, r := range results {
		matches[i] = domain.Match{ID: r.ID, Score: float64(r.Similarity)}
		if includeMetadata {
			matches[i].Metadata = r.Metadata
		}
	}
	return matches, nil
}

// Clear drops the collection and recreates it empty with the same
// metadata, the only way chromem removes all documents at once.
func (s *Store) Clear(_ context.Context) error {
	if s.collection == nil {
		return domain.ErrIndexNotProvisioned
	}
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("chromem: delete collection: %w", err)
	}

	metadata := map[string]string{
		"hnsw:space": "cosine",
		"dimensions": strconv.Itoa(s.dimensions),
	}
	c, err := s.db.GetOrCreateCollection(s.name, metadata, nil)
	if err != nil {
		return fmt.Errorf("chromem: recreate collection: %w", err)
	}
	s.collection = c
	return nil
}

// Close releases resources. Persistence is write-through, so there is
// nothing to flush.
func (s *Store) Close() error { return nil }
