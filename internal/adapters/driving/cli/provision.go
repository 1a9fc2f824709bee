package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the vector index collection",
	Long: `Creates the configured vector index collection with the embedding
provider's dimensionality. Safe to run repeatedly.`,
	RunE: runProvision,
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.provision(ctx); err != nil {
		return fmt.Errorf("provision index: %w", err)
	}

	cmd.Printf("index %q ready (%d dimensions, %s embeddings)\n",
		app.cfg.VectorStore.Collection,
		app.services.Embedder.Dimensions(),
		app.services.Embedder.ModelName())
	return nil
}
