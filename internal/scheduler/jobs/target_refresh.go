package jobs

import (
	"context"
	"fmt"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
)

// TargetRefreshName is the registered name of the cache refresh job
const TargetRefreshName = "target_refresh"

// TargetRefresher reloads the cached target snapshot
type TargetRefresher interface {
	RefreshTargetRate(ctx context.Context) (*contracts.TargetRateSnapshot, error)
}

// TargetRefreshJob keeps the cached Copom target warm.
// Only registered when Redis is enabled.
type TargetRefreshJob struct {
	refresher TargetRefresher
	schedule  string
	logger    *logger.Logger
}

// NewTargetRefreshJob creates a new refresh job
func NewTargetRefreshJob(refresher TargetRefresher, schedule string, log *logger.Logger) *TargetRefreshJob {
	return &TargetRefreshJob{
		refresher: refresher,
		schedule:  schedule,
		logger:    log.Module("target_refresh"),
	}
}

// Name returns the job name
func (j *TargetRefreshJob) Name() string {
	return TargetRefreshName
}

// Schedule returns the cron schedule (with seconds)
func (j *TargetRefreshJob) Schedule() string {
	return j.schedule
}

// Run reloads the snapshot
func (j *TargetRefreshJob) Run(ctx context.Context) error {
	snapshot, err := j.refresher.RefreshTargetRate(ctx)
	if err != nil {
		return fmt.Errorf("refresh target rate: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":  snapshot.DateText,
		"value": snapshot.Value,
	}).Debug("Target rate refreshed")

	return nil
}
