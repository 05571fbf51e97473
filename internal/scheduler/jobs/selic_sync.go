package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
)

// SelicSyncName is the registered name of the sync job
const SelicSyncName = "selic_sync"

// Syncer ingests the upstream series over a window
type Syncer interface {
	Sync(ctx context.Context, window contracts.SeriesWindow) (*contracts.IngestResult, error)
}

// SelicSyncJob pulls the daily Selic series from upstream and upserts it
// ⭐ SSOT: the scheduled Selic sync is this job only
type SelicSyncJob struct {
	syncer   Syncer
	schedule string
	lookback int // days; 0 syncs the full series
	now      func() time.Time
	logger   *logger.Logger
}

// NewSelicSyncJob creates a new sync job
func NewSelicSyncJob(syncer Syncer, schedule string, lookbackDays int, log *logger.Logger) *SelicSyncJob {
	return &SelicSyncJob{
		syncer:   syncer,
		schedule: schedule,
		lookback: lookbackDays,
		now:      time.Now,
		logger:   log.Module("selic_sync"),
	}
}

// Name returns the job name
func (j *SelicSyncJob) Name() string {
	return SelicSyncName
}

// Schedule returns the cron schedule (with seconds)
func (j *SelicSyncJob) Schedule() string {
	return j.schedule
}

// Window returns the series window the next run will request
func (j *SelicSyncJob) Window() contracts.SeriesWindow {
	if j.lookback <= 0 {
		return contracts.SeriesWindow{}
	}

	today := j.now().UTC().Truncate(24 * time.Hour)
	return contracts.SeriesWindow{
		From: today.AddDate(0, 0, -j.lookback),
		To:   today,
	}
}

// Run executes one sync
func (j *SelicSyncJob) Run(ctx context.Context) error {
	window := j.Window()
	j.logger.WithField("full_series", window.IsZero()).Info("Starting scheduled Selic sync")

	result, err := j.syncer.Sync(ctx, window)
	if err != nil {
		return fmt.Errorf("sync selic series: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"batch_id": result.BatchID,
		"rows":     result.RowsProcessed,
	}).Info("Scheduled Selic sync completed")

	return nil
}
