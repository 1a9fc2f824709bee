package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driving"
	"github.com/quayside-labs/ragpipe/internal/logger"
)

// Ensure QueryPipeline implements the interface.
var _ driving.QueryService = (*QueryPipeline)(nil)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 5

// QueryPipeline answers a question by embedding it, retrieving the nearest
// passages from the vector index and handing the assembled context to the
// answerer.
type QueryPipeline struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	answerer *Answerer
	topK     int
}

// NewQueryPipeline creates a query pipeline. topK values below one fall
// back to the default.
func NewQueryPipeline(embedder driven.EmbeddingService, index driven.VectorIndex, answerer *Answerer, topK int) *QueryPipeline {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &QueryPipeline{
		embedder: embedder,
		index:    index,
		answerer: answerer,
		topK:     topK,
	}
}

// Ask runs the full retrieval and generation pipeline for a question.
func (p *QueryPipeline) Ask(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: Question required", domain.ErrInvalidInput)
	}

	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	matches, err := p.index.Query(ctx, vector, p.topK, true)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("query index: %w", err)
	}
	logger.Debug("retrieved %d matches for question", len(matches))

	return p.answerer.Answer(ctx, question, AssembleContext(matches))
}
