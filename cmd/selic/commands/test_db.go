package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/venysssssssssss/data-intake-selic-bc/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Test the PostgreSQL connection",
	Long: `Tests the database connection, ensures the rate table and shows pool statistics.

This command:
- loads DATABASE_URL from config
- connects and pings the database
- creates the rate table when missing (existing data is kept)
- prints pool statistics

Example:
  go run ./cmd/selic test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Selic Data Intake Database Connection Test ===")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", database.MaskURL(cfg.Database.URL))

	fmt.Println("Connecting to database, ensuring schema...")
	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer a.close()
	fmt.Printf("✅ Table %s ready\n", a.store.Table())

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	status, err := a.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	fmt.Println("✅ Health Check Results:")
	PrintKeyValue("Healthy", fmt.Sprintf("%v", status.Healthy), 20)
	PrintKeyValue("Response Time", status.ResponseTime.String(), 20)
	PrintKeyValue("Timestamp", status.Timestamp.Format(time.RFC3339), 20)

	fmt.Println("\n📊 Connection Pool Statistics:")
	PrintKeyValue("Max Connections", fmt.Sprintf("%d", status.Stats.MaxConns), 20)
	PrintKeyValue("Total Connections", fmt.Sprintf("%d", status.Stats.TotalConns), 20)
	PrintKeyValue("Acquired Connections", fmt.Sprintf("%d", status.Stats.AcquiredConns), 20)
	PrintKeyValue("Idle Connections", fmt.Sprintf("%d", status.Stats.IdleConns), 20)
	PrintKeyValue("Acquire Count", fmt.Sprintf("%d", status.Stats.AcquireCount), 20)
	PrintKeyValue("Acquire Duration", status.Stats.AcquireDuration.String(), 20)

	if a.redis.Enabled() {
		if err := a.redis.Ping(ctx); err != nil {
			PrintWarning(fmt.Sprintf("Redis ping failed: %v", err))
		} else {
			PrintSuccess("Redis reachable")
		}
	}

	fmt.Println("\n✅ All tests passed!")
	return nil
}
