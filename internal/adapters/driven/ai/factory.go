// Package ai provides factory functions that turn configuration into
// concrete embedding, vector store and generation adapters.
package ai

import (
	"context"
	"fmt"

	"github.com/quayside-labs/ragpipe/internal/adapters/driven/config"
	geminiembed "github.com/quayside-labs/ragpipe/internal/adapters/driven/embedding/gemini"
	localembed "github.com/quayside-labs/ragpipe/internal/adapters/driven/embedding/local"
	openaiembed "github.com/quayside-labs/ragpipe/internal/adapters/driven/embedding/openai"
	geminillm "github.com/quayside-labs/ragpipe/internal/adapters/driven/llm/gemini"
	openaillm "github.com/quayside-labs/ragpipe/internal/adapters/driven/llm/openai"
	"github.com/quayside-labs/ragpipe/internal/adapters/driven/vectorstore/chromem"
	"github.com/quayside-labs/ragpipe/internal/adapters/driven/vectorstore/memory"
	"github.com/quayside-labs/ragpipe/internal/adapters/driven/vectorstore/qdrant"
	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
	"github.com/quayside-labs/ragpipe/internal/logger"
)

// Services bundles the driven adapters built from configuration.
type Services struct {
	Embedder driven.EmbeddingService
	Index    driven.VectorIndex

	// LLM is nil when no generation backend is configured; the pipeline
	// then answers in degraded mode.
	LLM driven.LLMService
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedder != nil {
		s.Embedder.Close()
	}
	if s.Index != nil {
		s.Index.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// Build creates all driven adapters from the configuration.
//
// A missing embedding credential is a hard error: silently swapping the
// embedding provider would mix incompatible vector spaces in the index. A
// missing generation credential only degrades generation, which is safe.
func Build(ctx context.Context, cfg config.Config) (*Services, error) {
	embedder, err := buildEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return nil, err
	}

	index, err := buildIndex(cfg.VectorStore)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	llm, err := buildLLM(ctx, cfg.Generation)
	if err != nil {
		embedder.Close()
		index.Close()
		return nil, err
	}

	return &Services{Embedder: embedder, Index: index, LLM: llm}, nil
}

func buildEmbedder(ctx context.Context, cfg config.Embedding) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case config.ProviderLocal:
		return localembed.New(), nil

	case config.ProviderOpenAI:
		key := cfg.APIKey()
		if key == "" {
			return nil, fmt.Errorf("%w: embedding provider %q needs %s set", domain.ErrNotConfigured, cfg.Provider, cfg.APIKeyEnv)
		}
		return openaiembed.New(openaiembed.Config{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout(),
		})

	case config.ProviderGemini:
		key := cfg.APIKey()
		if key == "" {
			return nil, fmt.Errorf("%w: embedding provider %q needs %s set", domain.ErrNotConfigured, cfg.Provider, cfg.APIKeyEnv)
		}
		return geminiembed.New(ctx, geminiembed.Config{
			APIKey:            key,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrNotConfigured, cfg.Provider)
	}
}

func buildIndex(cfg config.VectorStore) (driven.VectorIndex, error) {
	switch cfg.Provider {
	case config.ProviderMemory:
		return memory.New(), nil

	case config.ProviderChrome:
		return chromem.New(cfg.Path, cfg.Collection)

	case config.ProviderQdrant:
		return qdrant.New(qdrant.Config{
			URL:        cfg.URL,
			APIKey:     cfg.APIKey(),
			Collection: cfg.Collection,
			Timeout:    cfg.Timeout(),
		})

	default:
		return nil, fmt.Errorf("%w: unknown vector store provider %q", domain.ErrNotConfigured, cfg.Provider)
	}
}

func buildLLM(ctx context.Context, cfg config.Generation) (driven.LLMService, error) {
	if cfg.Provider == "" || cfg.Provider == config.ProviderNone {
		return nil, nil
	}

	key := cfg.APIKey()
	if key == "" {
		logger.Warn("generation provider %q has no %s set, answers will be degraded", cfg.Provider, cfg.APIKeyEnv)
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaillm.New(openaillm.Config{
			APIKey:  key,
			Model:   cfg.Model,
			Timeout: cfg.Timeout(),
		})

	case config.ProviderGemini:
		return geminillm.New(ctx, geminillm.Config{
			APIKey: key,
			Model:  cfg.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unknown generation provider %q", domain.ErrNotConfigured, cfg.Provider)
	}
}

// GenerateOptions derives generation options from configuration.
func GenerateOptions(cfg config.Generation) driven.GenerateOptions {
	return driven.GenerateOptions{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}
