package commands

import (
	"context"
	"fmt"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/external/bcb"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/s0_data"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/s0_data/collector"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/config"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/database"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/httputil"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/redis"
)

// cacheNamespace prefixes every Redis key of this service
const cacheNamespace = "selic"

// app holds the wired dependencies shared by the commands
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB // nil when opened without a database
	redis     *redis.Client
	store     *s0_data.RateRepository
	provider  *bcb.Client
	collector *collector.Collector
}

// loadConfig reads configuration and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg, nil
}

// newApp wires config, logger, Redis, the upstream client and, when withDB
// is set, the database and the rate store with its schema ensured.
func newApp(ctx context.Context, withDB bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	mode, err := contracts.ParseBatchMode(cfg.Ingest.BatchMode)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	a.redis, err = redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	httpClient := httputil.NewWithTimeout(log, cfg.BCB.Timeout).WithLimiter(cfg.BCB.RateLimit)
	if a.redis.Enabled() {
		httpClient.WithRateLimiter(redis.NewRateLimiter(a.redis, cacheNamespace), redis.BCBRateLimit(cfg.BCB.RateLimit))
	}
	a.provider = bcb.NewClient(httpClient, bcb.Config{
		BaseURL:          cfg.BCB.BaseURL,
		SeriesCode:       cfg.BCB.SeriesCode,
		TargetSeriesCode: cfg.BCB.TargetSeriesCode,
	}, log)

	var store contracts.RateStore
	if withDB {
		a.db, err = database.New(ctx, cfg)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to database %s: %w", database.MaskURL(cfg.Database.URL), err)
		}

		a.store, err = s0_data.NewRateRepository(a.db.Pool, cfg.Database.Table)
		if err != nil {
			a.close()
			return nil, err
		}
		if err := a.store.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, err
		}
		store = a.store
		log.WithField("table", a.store.Table()).Info("Rate store ready")
	}

	a.collector = collector.NewCollector(store, a.provider, redis.NewCache(a.redis, cacheNamespace), collector.Config{
		Mode:             mode,
		TargetSeriesCode: cfg.BCB.TargetSeriesCode,
		TargetCacheTTL:   cfg.Redis.TargetRateTTL,
	}, log)

	return a, nil
}

// close releases every connection the app opened
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
