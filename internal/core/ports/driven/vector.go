package driven

import (
	"context"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

// VectorIndex stores (id, vector, metadata) entries and answers top-K
// similarity queries. Backed by a remote store (qdrant) or an embedded one
// (chromem, memory).
//
// The index must be provisioned with the embedder's dimensionality before
// first use; Upsert and Query against an unprovisioned index return
// domain.ErrIndexNotProvisioned rather than creating anything implicitly.
type VectorIndex interface {
	// Provision declares the collection with the given dimensionality.
	// It is idempotent and is the only operation allowed to create state.
	Provision(ctx context.Context, dimensions int) error

	// Upsert writes entries in one batch. Idempotent per id: re-upserting
	// an id replaces its vector and metadata.
	Upsert(ctx context.Context, entries []domain.IndexEntry) error

	// Query returns up to topK matches ordered by descending similarity.
	// Ties are broken deterministically where the backend allows it.
	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Match, error)

	// Clear removes every entry. The collection stays provisioned, so
	// ingestion can resume without another Provision call.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
