package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/scheduler"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the Selic sync on a schedule",
	Long: `Runs the upstream sync on a cron schedule. The API server never schedules
anything on its own; start this command to keep the series current.

Subcommands:
  start   - start the scheduler and block
  list    - list registered jobs
  run     - run one job now and print its result

Example:
  go run ./cmd/selic scheduler start
  go run ./cmd/selic scheduler list
  go run ./cmd/selic scheduler run selic_sync`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler with every registered job.

Registered jobs:
- selic_sync: SYNC_SCHEDULE (default weekdays 09:00)
- target_refresh: every 5 minutes, only when REDIS_ENABLED=true

Failed runs are logged and recorded, never retried. Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var (
	syncLookbackDays      int
	targetRefreshSchedule string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().IntVar(&syncLookbackDays, "lookback", 0, "days of history per sync (0 for the full series)")
	schedulerCmd.PersistentFlags().StringVar(&targetRefreshSchedule, "target-refresh", "0 */5 * * * *", "cron schedule of target_refresh")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Selic Data Intake Scheduler ===")

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	printJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	printStats(sched)

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	printJobs(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("Running job: %s\n", jobName)

	result, err := sched.RunJob(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %s: %s", jobName, result.Duration, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}

	PrintSuccess(fmt.Sprintf("%s completed in %s", jobName, result.Duration))
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next, _ := sched.NextRun(jobName)
		nextText := "-"
		if !next.IsZero() {
			nextText = next.Format(time.RFC3339)
		}
		fmt.Printf("  - %-16s %-18s next: %s\n", jobName, stats[jobName].Schedule, nextText)
	}
}

func printStats(sched *scheduler.Scheduler) {
	for _, jobName := range sched.GetAllJobs() {
		stat := sched.GetJobStats()[jobName]

		fmt.Printf("📊 %s\n", jobName)
		PrintKeyValue("Total Runs", fmt.Sprintf("%d", stat.TotalRuns), 12)
		PrintKeyValue("Success", fmt.Sprintf("%d (%.1f%%)", stat.SuccessCount, stat.SuccessRate*100), 12)
		PrintKeyValue("Failures", fmt.Sprintf("%d", stat.FailureCount), 12)
		if stat.LastRun != nil {
			PrintKeyValue("Last Run", stat.LastRun.Format(time.RFC3339), 12)
		}
	}
}

// initScheduler wires the app and registers every job
func initScheduler(cmd *cobra.Command) (*app, *scheduler.Scheduler, error) {
	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewSelicSyncJob(a.collector, a.cfg.SyncSchedule, syncLookbackDays, a.log)); err != nil {
		a.close()
		return nil, nil, fmt.Errorf("register %s: %w", jobs.SelicSyncName, err)
	}

	if a.redis.Enabled() {
		if err := sched.AddJob(jobs.NewTargetRefreshJob(a.collector, targetRefreshSchedule, a.log)); err != nil {
			a.close()
			return nil, nil, fmt.Errorf("register %s: %w", jobs.TargetRefreshName, err)
		}
	}

	return a, sched, nil
}
