package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/api"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /                - Service status
  GET  /v1/health       - Liveness and database connectivity
  POST /v1/ingest       - Ingest a batch of {data, valor}
  POST /v1/fetch-bcb    - Fetch the BCB series and ingest it
  GET  /v1/raw-data     - Stored records, most recent first
  GET  /v1/meta-selic   - Current Copom target rate

Example:
  go run ./cmd/selic api
  go run ./cmd/selic api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default PORT or 8000)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Selic Data Intake API Server ===")

	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	selicHandler := handlers.NewSelicHandler(a.collector, a.cfg.Ingest.MaxBodyBytes, a.log)
	healthHandler := handlers.NewHealthHandler(a.store)
	router := api.NewRouter(selicHandler, healthHandler, a.cfg.CORSAllowedOrigins, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s (batch mode: %s)\n", a.cfg.Port, a.collector.Mode())
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
