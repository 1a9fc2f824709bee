// Package config loads and validates the TOML configuration file.
//
// Credentials never live in the file itself: provider sections name an
// environment variable (api_key_env) and the key is read from the process
// environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

// Provider names accepted in the embedding, vector_store and generation
// sections.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMemory = "memory"
	ProviderChrome = "chromem"
	ProviderQdrant = "qdrant"
	ProviderNone   = "none"
)

// Config is the full application configuration.
type Config struct {
	// ListenAddr is the HTTP listen address for serve mode.
	ListenAddr string `toml:"listen_addr"`

	Chunking    Chunking    `toml:"chunking"`
	Embedding   Embedding   `toml:"embedding"`
	VectorStore VectorStore `toml:"vector_store"`
	Generation  Generation  `toml:"generation"`
	Query       Query       `toml:"query"`
}

// Chunking controls the text splitter.
type Chunking struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// Embedding selects and configures the embedding provider.
type Embedding struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	APIKeyEnv         string  `toml:"api_key_env"`
	TimeoutSecs       int     `toml:"timeout_secs"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// VectorStore selects and configures the vector index backend.
type VectorStore struct {
	Provider    string `toml:"provider"`
	URL         string `toml:"url"`
	Collection  string `toml:"collection"`
	APIKeyEnv   string `toml:"api_key_env"`
	Path        string `toml:"path"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// Generation selects and configures the answer generation provider.
type Generation struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKeyEnv   string  `toml:"api_key_env"`
	TimeoutSecs int     `toml:"timeout_secs"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

// Query controls retrieval.
type Query struct {
	TopK int `toml:"top_k"`
}

// Default returns the configuration used when no file is present: local
// embeddings into an in-memory index, no generation backend.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		Chunking:   Chunking{Size: 1000, Overlap: 200},
		Embedding:  Embedding{Provider: ProviderLocal},
		VectorStore: VectorStore{
			Provider:   ProviderMemory,
			Collection: "documents",
		},
		Generation: Generation{Provider: ProviderNone},
		Query:      Query{TopK: 5},
	}
}

// Load reads the TOML file at path, layered over defaults. An empty path or
// a missing file yields the defaults. A .env file next to the working
// directory is loaded first so api_key_env lookups can see it.
func Load(path string) (Config, error) {
	// Missing .env is fine; it is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints and provider names.
func (c Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking.size must be positive", domain.ErrInvalidChunking)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap must be in [0, size)", domain.ErrInvalidChunking)
	}
	if c.Query.TopK <= 0 {
		return fmt.Errorf("%w: query.top_k must be positive", domain.ErrNotConfigured)
	}

	switch c.Embedding.Provider {
	case ProviderLocal, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrNotConfigured, c.Embedding.Provider)
	}
	switch c.VectorStore.Provider {
	case ProviderMemory, ProviderChrome, ProviderQdrant:
	default:
		return fmt.Errorf("%w: unknown vector store provider %q", domain.ErrNotConfigured, c.VectorStore.Provider)
	}
	switch c.Generation.Provider {
	case ProviderNone, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("%w: unknown generation provider %q", domain.ErrNotConfigured, c.Generation.Provider)
	}
	return nil
}

// APIKey resolves the embedding credential from the environment.
func (e Embedding) APIKey() string { return envValue(e.APIKeyEnv) }

// Timeout returns the request timeout, zero when unset.
func (e Embedding) Timeout() time.Duration { return secs(e.TimeoutSecs) }

// APIKey resolves the vector store credential from the environment.
func (v VectorStore) APIKey() string { return envValue(v.APIKeyEnv) }

// Timeout returns the request timeout, zero when unset.
func (v VectorStore) Timeout() time.Duration { return secs(v.TimeoutSecs) }

// APIKey resolves the generation credential from the environment.
func (g Generation) APIKey() string { return envValue(g.APIKeyEnv) }

// Timeout returns the request timeout, zero when unset.
func (g Generation) Timeout() time.Duration { return secs(g.TimeoutSecs) }

func envValue(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func secs(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
