package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a batch of points from a JSON file",
	Long: `Reads a JSON array of {"data": "DD/MM/YYYY", "valor": number} and upserts it.

The whole file is rejected when any point is invalid.

Example:
  go run ./cmd/selic ingest --file points.json
  cat points.json | go run ./cmd/selic ingest --file -`,
	RunE: runIngest,
}

var (
	ingestFile string
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "JSON file to ingest (- for stdin)")
	_ = ingestCmd.MarkFlagRequired("file")
}

func runIngest(cmd *cobra.Command, args []string) error {
	reqs, err := readBatchFile(ingestFile)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	start := time.Now()
	result, err := a.collector.Ingest(cmd.Context(), reqs)
	if err != nil {
		PrintError(fmt.Sprintf("[%s] %v", contracts.Category(err), err))
		return err
	}

	PrintSuccess(fmt.Sprintf("Data ingested successfully: %d rows (batch %s, mode %s)",
		result.RowsProcessed, result.BatchID, result.Mode))
	PrintCompletion(time.Since(start))
	return nil
}

func readBatchFile(path string) ([]contracts.IngestRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var reqs []contracts.IngestRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array of {data, valor}: %w", path, err)
	}
	return reqs, nil
}
