package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the vector index",
	Long: `Deletes all indexed entries. The collection itself stays
provisioned, so documents can be ingested again immediately.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.provision(ctx); err != nil {
		return fmt.Errorf("provision index: %w", err)
	}

	if err := app.services.Index.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	cmd.Printf("index %q cleared\n", app.cfg.VectorStore.Collection)
	return nil
}
