package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// rawCmd represents the raw command
var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Print stored records, most recent first",
	Example: `  go run ./cmd/selic raw
  go run ./cmd/selic raw --limit 10`,
	RunE: runRaw,
}

var (
	rawLimit int
)

func init() {
	rootCmd.AddCommand(rawCmd)

	rawCmd.Flags().IntVarP(&rawLimit, "limit", "n", 20, "rows to print (0 for all)")
}

func runRaw(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.collector.Records(cmd.Context())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		PrintInfo("No records stored yet. Run `selic sync` first.")
		return nil
	}

	shown := records
	if rawLimit > 0 && len(shown) > rawLimit {
		shown = shown[:rawLimit]
	}

	widths := []int{12, 12, 25}
	PrintTableHeader([]string{"data", "valor", "ingested_at"}, widths)
	for _, r := range shown {
		PrintTableRow([]string{
			r.DateText,
			fmt.Sprintf("%g", r.Value),
			r.IngestedAt.Format(time.RFC3339),
		}, widths)
	}
	fmt.Printf("\n%d of %d records\n", len(shown), len(records))
	return nil
}
