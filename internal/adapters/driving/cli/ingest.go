package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the vector index",
	Long: `Extracts text from each file, chunks it, embeds every chunk and
stores the result in the vector index. Supported formats: plain text,
DOCX, PDF.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.provision(ctx); err != nil {
		return fmt.Errorf("provision index: %w", err)
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		filename := filepath.Base(path)
		text, err := app.parsers.Extract(ctx, filename, data)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}

		receipt, err := app.ingest.Ingest(ctx, domain.Document{Source: filename, Content: text})
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("%s: document %s, %d chunks\n", path, receipt.DocumentID, receipt.Chunks)
	}
	return nil
}
