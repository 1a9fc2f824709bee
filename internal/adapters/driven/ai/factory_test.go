package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside-labs/ragpipe/internal/adapters/driven/config"
	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

func TestBuild_Defaults(t *testing.T) {
	svcs, err := Build(context.Background(), config.Default())
	require.NoError(t, err)
	defer svcs.Close()

	assert.Equal(t, "local-charcode-384", svcs.Embedder.ModelName())
	assert.Equal(t, 384, svcs.Embedder.Dimensions())
	assert.NotNil(t, svcs.Index)
	assert.Nil(t, svcs.LLM)
}

func TestBuild_RemoteEmbeddingWithoutKeyFails(t *testing.T) {
	cfg := config.Default()
	cfg.Embedding.Provider = config.ProviderOpenAI
	cfg.Embedding.APIKeyEnv = "TEST_ABSENT_KEY"

	_, err := Build(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestBuild_GenerationWithoutKeyDegrades(t *testing.T) {
	cfg := config.Default()
	cfg.Generation.Provider = config.ProviderOpenAI
	cfg.Generation.APIKeyEnv = "TEST_ABSENT_KEY"

	svcs, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer svcs.Close()

	assert.Nil(t, svcs.LLM)
}

func TestBuild_OpenAIWithKey(t *testing.T) {
	t.Setenv("TEST_PRESENT_KEY", "sk-test")

	cfg := config.Default()
	cfg.Embedding.Provider = config.ProviderOpenAI
	cfg.Embedding.APIKeyEnv = "TEST_PRESENT_KEY"
	cfg.Generation.Provider = config.ProviderOpenAI
	cfg.Generation.APIKeyEnv = "TEST_PRESENT_KEY"

	svcs, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer svcs.Close()

	assert.NotNil(t, svcs.LLM)
	assert.Equal(t, "gpt-4o-mini", svcs.LLM.ModelName())
}

func TestGenerateOptions(t *testing.T) {
	opts := GenerateOptions(config.Generation{MaxTokens: 256, Temperature: 0.7})
	assert.Equal(t, 256, opts.MaxTokens)
	assert.InDelta(t, 0.7, opts.Temperature, 1e-9)
}
