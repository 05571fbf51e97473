package contracts

import (
	"context"
	"time"
)

// RateStore owns the keyed Selic table
// ⭐ SSOT: the only component allowed to mutate stored rates
type RateStore interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, date time.Time, value float64) error
	UpsertBatch(ctx context.Context, records []RateRecord) error
	GetAll(ctx context.Context) ([]RateRecord, error)
	Ping(ctx context.Context) error
}

// SeriesWindow optionally bounds an upstream series request (inclusive dates)
type SeriesWindow struct {
	From time.Time
	To   time.Time
}

// IsZero reports an unbounded window
func (w SeriesWindow) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// RateProvider is the upstream source of rate observations
type RateProvider interface {
	FetchSeries(ctx context.Context, window SeriesWindow) ([]IngestRequest, error)
	FetchTargetRate(ctx context.Context) (*TargetRateSnapshot, error)
}
