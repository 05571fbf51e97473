package database_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/venysssssssssss/data-intake-selic-bc/pkg/config"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/database"
)

// Example demonstrates how to use the database package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", database.MaskURL(cfg.Database.URL), err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	fmt.Printf("Healthy: %v, total conns: %d\n", status.Healthy, status.Stats.TotalConns)
}
