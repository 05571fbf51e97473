package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/s0_data/quality"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the BCB series once and ingest it",
	Long: `Fetches the daily Selic series from the BCB SGS API and upserts every point.

Without --from/--to the full series is requested.

Example:
  go run ./cmd/selic sync
  go run ./cmd/selic sync --from 01/01/2024 --to 31/03/2024`,
	RunE: runSync,
}

var (
	syncFrom string
	syncTo   string
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncFrom, "from", "", "window start (DD/MM/YYYY)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "window end (DD/MM/YYYY)")
}

func runSync(cmd *cobra.Command, args []string) error {
	window, err := parseWindowFlags(syncFrom, syncTo)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	period := &Period{StartDate: "first", EndDate: "latest"}
	if !window.From.IsZero() {
		period.StartDate = window.From.Format(contracts.DisplayLayout)
	}
	if !window.To.IsZero() {
		period.EndDate = window.To.Format(contracts.DisplayLayout)
	}
	PrintJobHeader(JobMetadata{
		JobType: "BCB SGS " + a.cfg.BCB.SeriesCode + " sync",
		Tag:     "Sync",
		Period:  period,
	})

	start := time.Now()
	result, err := a.collector.Sync(cmd.Context(), window)
	if err != nil {
		PrintError(fmt.Sprintf("[%s] %v", contracts.Category(err), err))
		return err
	}

	PrintKeyValue("Batch", result.BatchID, 8)
	PrintKeyValue("Mode", string(result.Mode), 8)
	PrintKeyValue("Rows", fmt.Sprintf("%d", result.RowsProcessed), 8)
	PrintCompletion(time.Since(start))
	return nil
}

func parseWindowFlags(from, to string) (contracts.SeriesWindow, error) {
	var window contracts.SeriesWindow
	var err error

	if from != "" {
		if window.From, err = quality.ParseDate(from); err != nil {
			return window, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if window.To, err = quality.ParseDate(to); err != nil {
			return window, fmt.Errorf("--to: %w", err)
		}
	}
	if !window.From.IsZero() && !window.To.IsZero() && window.To.Before(window.From) {
		return window, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return window, nil
}
