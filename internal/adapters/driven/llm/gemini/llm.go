// Package gemini provides a generation backend adapter using the Google
// Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Google AI API key (required).
	APIKey string

	// Model is the generation model (default gemini-2.0-flash).
	Model string
}

// LLMService generates answers using the Gemini API.
type LLMService struct {
	client *genai.Client
	name   string
}

// New creates a new Gemini LLM service.
func New(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini llm: %w: API key is required", domain.ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini llm: create client: %w", err)
	}
	return &LLMService{client: client, name: cfg.Model}, nil
}

// Generate produces a completion for the prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	model := s.client.GenerativeModel(s.name)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	model.SetTemperature(float32(opts.Temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini llm: %w: %v", domain.ErrBackendUnavailable, err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini llm: %w: empty generation response", domain.ErrBackendUnavailable)
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// ModelName returns the name of the generation model being used.
func (s *LLMService) ModelName() string { return s.name }

// Close releases the underlying client.
func (s *LLMService) Close() error { return s.client.Close() }
