package services

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/quayside-labs/ragpipe/internal/chunker"
	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driving"
	"github.com/quayside-labs/ragpipe/internal/logger"
)

// Ensure IngestPipeline implements the interface.
var _ driving.IngestService = (*IngestPipeline)(nil)

// DefaultEmbedConcurrency bounds how many chunks are embedded at once.
const DefaultEmbedConcurrency = 8

// IngestPipeline chunks a document, embeds every chunk and upserts the
// resulting entries into the vector index in a single batch. Either the
// whole document is indexed or none of it is.
type IngestPipeline struct {
	chunker     *chunker.Chunker
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	concurrency int
}

// NewIngestPipeline creates an ingestion pipeline.
func NewIngestPipeline(c *chunker.Chunker, embedder driven.EmbeddingService, index driven.VectorIndex) *IngestPipeline {
	return &IngestPipeline{
		chunker:     c,
		embedder:    embedder,
		index:       index,
		concurrency: DefaultEmbedConcurrency,
	}
}

// Ingest processes a document through the full pipeline and returns a
// receipt describing what was indexed.
func (p *IngestPipeline) Ingest(ctx context.Context, doc domain.Document) (domain.IngestReceipt, error) {
	docID, chunks := p.chunker.ChunkDocument(doc)
	if len(chunks) == 0 {
		return domain.IngestReceipt{}, fmt.Errorf("ingest %q: %w", doc.Source, domain.ErrNoContent)
	}
	logger.Debug("ingesting %q as %s: %d chunks", doc.Source, docID, len(chunks))

	entries := make([]domain.IndexEntry, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			vector, err := p.embedder.Embed(gctx, chunk.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", chunk.Position, err)
			}
			entries[i] = domain.IndexEntry{
				ID:     chunk.ID,
				Vector: vector,
				Metadata: map[string]string{
					domain.MetaText:     chunk.Content,
					domain.MetaPosition: strconv.Itoa(chunk.Position),
					domain.MetaSource:   doc.Source,
					domain.MetaDocument: docID,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.IngestReceipt{}, err
	}

	if err := p.index.Upsert(ctx, entries); err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("upsert %d entries: %w", len(entries), err)
	}

	return domain.IngestReceipt{DocumentID: docID, Chunks: len(chunks)}, nil
}
