package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayside-labs/ragpipe/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP API, provisioning the vector index on startup.

Endpoints:
  GET  /health            liveness check
  POST /ingest            upload a document (multipart "file" or raw text body)
  POST /query             ask a question ({"question": "..."})
  POST /clear-embeddings  remove every indexed entry`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.provision(cmd.Context()); err != nil {
		return fmt.Errorf("provision index: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = app.cfg.ListenAddr
	}

	server := httpapi.New(app.ingest, app.query, app.services.Index, app.parsers)
	return server.Run(addr)
}
