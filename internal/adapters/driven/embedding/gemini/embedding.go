// Package gemini provides an embedding service adapter using the Google
// Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel = "text-embedding-004"

	// DefaultRequestsPerSecond keeps batch ingestion under the free-tier
	// quota instead of retrying 429 responses.
	DefaultRequestsPerSecond = 5.0

	// Dimensions of text-embedding-004 vectors.
	Dimensions = 768
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google AI API key (required).
	APIKey string

	// Model is the embedding model (default text-embedding-004).
	Model string

	// RequestsPerSecond caps the client-side request rate.
	RequestsPerSecond float64
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	client  *genai.Client
	model   *genai.EmbeddingModel
	name    string
	limiter *rate.Limiter
}

// New creates a new Gemini embedding service.
func New(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini embedding: %w: API key is required", domain.ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: create client: %w", err)
	}

	return &EmbeddingService{
		client:  client,
		model:   client.EmbeddingModel(cfg.Model),
		name:    cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w: %v", domain.ErrBackendUnavailable, err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embedding: %w: empty embedding response", domain.ErrBackendUnavailable)
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch embeds texts sequentially under the rate limiter.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int { return Dimensions }

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string { return s.name }

// Close releases the underlying client.
func (s *EmbeddingService) Close() error { return s.client.Close() }
