// Package local provides a deterministic, dependency-free embedding service.
//
// It exists so the pipeline is testable and usable without network access:
// identical input always produces a bit-identical vector. It is a character
// frequency hash, not a semantic model; do not mix its vectors with a remote
// provider's in the same index.
package local

import (
	"context"
	"math"

	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Dimensions is the fixed vector size of the local embedder.
const Dimensions = 384

// EmbeddingService maps text to a 384-dimension unit vector by bucketing
// character codes.
type EmbeddingService struct{}

// New creates the local embedding service.
func New() *EmbeddingService {
	return &EmbeddingService{}
}

// Embed accumulates +1 into bucket (charCode mod 384) for every character,
// then L2-normalises. The empty string embeds to the all-zero vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	acc := make([]float64, Dimensions)
	for _, r := range text {
		acc[int(r)%Dimensions]++
	}

	var sum float64
	for _, v := range acc {
		sum += v * v
	}
	norm := math.Sqrt(sum)

	vec := make([]float32, Dimensions)
	if norm > 0 {
		for i, v := range acc {
			vec[i] = float32(v / norm)
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the fixed vector size.
func (s *EmbeddingService) Dimensions() int { return Dimensions }

// ModelName identifies the algorithm.
func (s *EmbeddingService) ModelName() string { return "local-charcode-384" }

// Close releases resources.
func (s *EmbeddingService) Close() error { return nil }
