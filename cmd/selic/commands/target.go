package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// targetCmd represents the target command
var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Print the current Copom target rate (Meta Selic)",
	Example: `  go run ./cmd/selic target`,
	RunE: runTarget,
}

func init() {
	rootCmd.AddCommand(targetCmd)
}

func runTarget(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.close()

	snapshot, err := a.collector.TargetRate(cmd.Context())
	if err != nil {
		return err
	}

	PrintKeyValue("Series", a.cfg.BCB.TargetSeriesCode, 8)
	PrintKeyValue("Date", snapshot.DateText, 8)
	PrintKeyValue("Rate", fmt.Sprintf("%.2f%% a.a.", snapshot.Value), 8)
	return nil
}
