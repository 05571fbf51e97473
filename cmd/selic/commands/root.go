package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "selic",
	Short: "Selic data intake - Banco Central do Brasil rate ingestion",
	Long: `Selic data intake CLI

Ingests the daily Selic series (SGS 4390) from the Banco Central do Brasil,
stores one value per date and serves it over HTTP.

Usage:
  go run ./cmd/selic [command]

Examples:
  go run ./cmd/selic api
  go run ./cmd/selic sync --from 01/01/2024
  go run ./cmd/selic ingest --file points.json
  go run ./cmd/selic raw --limit 10
  go run ./cmd/selic test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (json|console)")
}
