// Package cli implements the command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayside-labs/ragpipe/internal/adapters/driven/ai"
	"github.com/quayside-labs/ragpipe/internal/adapters/driven/config"
	"github.com/quayside-labs/ragpipe/internal/chunker"
	"github.com/quayside-labs/ragpipe/internal/core/services"
	"github.com/quayside-labs/ragpipe/internal/logger"
	"github.com/quayside-labs/ragpipe/internal/normalisers"
)

var (
	version = "dev"

	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ragpipe",
	Short: "Document ingestion and retrieval pipeline",
	Long: `ragpipe ingests documents into a vector index and answers
questions about them using retrieval-augmented generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI. v is the build version stamped by the linker.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// app bundles everything a command needs: configuration, adapters and the
// two pipelines.
type app struct {
	cfg      config.Config
	services *ai.Services
	parsers  *normalisers.Registry
	ingest   *services.IngestPipeline
	query    *services.QueryPipeline
}

// setup loads configuration and wires the pipelines. Callers must Close.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	svcs, err := ai.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		svcs.Close()
		return nil, fmt.Errorf("chunker: %w", err)
	}

	answerer := services.NewAnswerer(svcs.LLM, ai.GenerateOptions(cfg.Generation))

	return &app{
		cfg:      cfg,
		services: svcs,
		parsers:  normalisers.Default(),
		ingest:   services.NewIngestPipeline(c, svcs.Embedder, svcs.Index),
		query:    services.NewQueryPipeline(svcs.Embedder, svcs.Index, answerer, cfg.Query.TopK),
	}, nil
}

// provision makes sure the vector index exists with the embedder's
// dimensionality.
func (a *app) provision(ctx context.Context) error {
	return a.services.Index.Provision(ctx, a.services.Embedder.Dimensions())
}

// Close releases all adapter resources.
func (a *app) Close() {
	a.services.Close()
}
