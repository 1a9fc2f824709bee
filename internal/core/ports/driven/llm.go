package driven

import "context"

// LLMService produces text from a prompt. This is an optional service:
// when nil, the answer generator emits a labelled placeholder instead of
// failing, so the pipeline stays exercisable without credentials.
type LLMService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero lets
	// the backend decide.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
