package driven

import "context"

// EmbeddingService maps text to a fixed-dimension vector.
//
// Exactly one implementation is constructed per process and injected into
// both pipelines: every vector written into one index must come from the
// same provider and configuration, or similarity ranking is corrupted.
//
// Implementations include the deterministic local embedder (no external
// dependency), OpenAI-compatible APIs, and Gemini.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. Results are in
	// input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. Fixed for the
	// lifetime of the service and must match the vector index.
	Dimensions() int

	// ModelName identifies the model or algorithm producing the vectors.
	ModelName() string

	// Close releases resources.
	Close() error
}
