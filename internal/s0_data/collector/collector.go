package collector

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/s0_data/quality"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/redis"
)

// Collector runs ingestion batches from clients and from the upstream series.
// It holds no state of its own between calls.
// ⭐ SSOT: ingestion orchestration lives in this package only
type Collector struct {
	store    contracts.RateStore
	provider contracts.RateProvider
	cache    *redis.Cache
	cfg      Config
	logger   *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Mode             contracts.BatchMode
	TargetSeriesCode string        // cache key of the target snapshot
	TargetCacheTTL   time.Duration // zero disables caching
}

// NewCollector creates a Collector. cache may be nil.
func NewCollector(
	store contracts.RateStore,
	provider contracts.RateProvider,
	cache *redis.Cache,
	cfg Config,
	log *logger.Logger,
) *Collector {
	if cfg.Mode == "" {
		cfg.Mode = contracts.BatchModeRow
	}
	return &Collector{
		store:    store,
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		logger:   log.Module("collector"),
	}
}

// Mode returns the batch commit mode in use
func (c *Collector) Mode() contracts.BatchMode {
	return c.cfg.Mode
}

// Ingest validates the whole batch, then applies it.
// Nothing is written when any record is invalid.
func (c *Collector) Ingest(ctx context.Context, reqs []contracts.IngestRequest) (*contracts.IngestResult, error) {
	id, batchLog := c.newBatch("manual", len(reqs))

	records, err := quality.ValidateBatch(reqs)
	if err != nil {
		batchLog.WithError(err).Warn("Batch rejected")
		return nil, err
	}

	return c.apply(ctx, id, records, batchLog)
}

// Sync fetches the upstream series and ingests it.
// Provider errors are returned unchanged; invalid upstream records surface
// as an UpstreamSchemaError. No rows change on either failure.
func (c *Collector) Sync(ctx context.Context, window contracts.SeriesWindow) (*contracts.IngestResult, error) {
	reqs, err := c.provider.FetchSeries(ctx, window)
	if err != nil {
		c.logger.WithError(err).Error("Failed to fetch upstream series")
		return nil, err
	}

	id, batchLog := c.newBatch("upstream", len(reqs))

	records, err := quality.ValidateBatch(reqs)
	if err != nil {
		batchLog.WithError(err).Error("Upstream batch rejected")
		return nil, &contracts.UpstreamSchemaError{Source: "upstream series", Reason: "invalid record", Err: err}
	}

	return c.apply(ctx, id, records, batchLog)
}

// Records returns every stored record, most recent first, in display form
func (c *Collector) Records(ctx context.Context) ([]contracts.StoredRate, error) {
	records, err := c.store.GetAll(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read stored records")
		return nil, err
	}

	views := make([]contracts.StoredRate, 0, len(records))
	for _, rec := range records {
		views = append(views, rec.View())
	}
	return views, nil
}

// TargetRate returns the latest target snapshot, through the cache when one is set
func (c *Collector) TargetRate(ctx context.Context) (*contracts.TargetRateSnapshot, error) {
	if c.cache == nil || c.cfg.TargetCacheTTL <= 0 {
		return c.provider.FetchTargetRate(ctx)
	}

	snapshot, hit, err := redis.GetOrSet(ctx, c.cache, redis.TargetRateKey(c.cfg.TargetSeriesCode), c.cfg.TargetCacheTTL,
		func(ctx context.Context) (contracts.TargetRateSnapshot, error) {
			s, err := c.provider.FetchTargetRate(ctx)
			if err != nil {
				return contracts.TargetRateSnapshot{}, err
			}
			return *s, nil
		})
	if err != nil {
		return nil, err
	}

	c.logger.WithField("cache_hit", hit).Debug("Target rate served")
	return &snapshot, nil
}

// RefreshTargetRate drops the cached snapshot and loads a fresh one
func (c *Collector) RefreshTargetRate(ctx context.Context) (*contracts.TargetRateSnapshot, error) {
	if c.cache != nil {
		if err := c.cache.Delete(ctx, redis.TargetRateKey(c.cfg.TargetSeriesCode)); err != nil {
			c.logger.WithError(err).Warn("Failed to drop cached target rate")
		}
	}
	return c.TargetRate(ctx)
}

// apply commits validated records according to the batch mode
func (c *Collector) apply(ctx context.Context, id string, records []contracts.RateRecord, batchLog *logger.Logger) (*contracts.IngestResult, error) {
	result := &contracts.IngestResult{
		BatchID: id,
		Mode:    c.cfg.Mode,
	}

	if len(records) == 0 {
		batchLog.Info("Empty batch, nothing to apply")
		return result, nil
	}

	start := time.Now()

	switch c.cfg.Mode {
	case contracts.BatchModeAtomic:
		if err := c.store.UpsertBatch(ctx, records); err != nil {
			sErr := asStorageError(err, "upsert_batch", 0)
			batchLog.WithError(sErr).Error("Batch transaction failed, nothing committed")
			return nil, sErr
		}
	default:
		for i, rec := range records {
			if err := c.store.Upsert(ctx, rec.Date, rec.Value); err != nil {
				sErr := asStorageError(err, "upsert", i)
				batchLog.WithError(sErr).WithFields(map[string]interface{}{
					"applied": i,
					"date":    rec.Key(),
				}).Error("Upsert failed, remaining records skipped")
				return nil, sErr
			}
		}
	}

	result.RowsProcessed = len(records)

	batchLog.WithFields(map[string]interface{}{
		"rows":     result.RowsProcessed,
		"duration": time.Since(start).String(),
	}).Info("Batch applied")

	return result, nil
}

// newBatch assigns a batch id for log correlation
func (c *Collector) newBatch(source string, size int) (string, *logger.Logger) {
	id := uuid.NewString()
	return id, c.logger.WithFields(map[string]interface{}{
		"batch_id": id,
		"source":   source,
		"size":     size,
		"mode":     string(c.cfg.Mode),
	})
}

// asStorageError keeps the store's error but records how many rows were applied
func asStorageError(err error, op string, applied int) *contracts.StorageError {
	var sErr *contracts.StorageError
	if errors.As(err, &sErr) {
		out := *sErr
		out.Applied = applied
		return &out
	}
	return &contracts.StorageError{Op: op, Applied: applied, Err: err}
}
