package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

var (
	queryJSON    bool
	queryContext bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	queryCmd.Flags().BoolVar(&queryContext, "context", false, "print the retrieved context")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.provision(ctx); err != nil {
		return fmt.Errorf("provision index: %w", err)
	}

	answer, err := app.query.Ask(ctx, args[0])
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputAnswerJSON(cmd, answer)
	}

	cmd.Println(answer.Text)
	if queryContext && answer.Context != "" {
		cmd.Println()
		cmd.Println("Context:")
		cmd.Println(answer.Context)
	}
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
