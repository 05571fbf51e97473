package config_test

import (
	"fmt"

	"github.com/venysssssssssss/data-intake-selic-bc/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Selic series: %s (target %s)\n", cfg.BCB.SeriesCode, cfg.BCB.TargetSeriesCode)
	fmt.Printf("Batch mode: %s\n", cfg.Ingest.BatchMode)
}
