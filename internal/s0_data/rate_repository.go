package s0_data

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
)

// DefaultTable is the table holding the Selic series
const DefaultTable = "selic_series"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Pool is the subset of *pgxpool.Pool the repository needs.
// Every call acquires a pooled connection and releases it before returning.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// RateRepository implements contracts.RateStore on PostgreSQL
// ⭐ SSOT: the Selic table is written here only
type RateRepository struct {
	pool  Pool
	table string
	now   func() time.Time

	schemaSQL string
	upsertSQL string
	selectSQL string
}

var _ contracts.RateStore = (*RateRepository)(nil)

// NewRateRepository creates a repository over table (DefaultTable when empty)
func NewRateRepository(pool Pool, table string) (*RateRepository, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()

	return &RateRepository{
		pool:  pool,
		table: table,
		now:   systemClock,

		schemaSQL: fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			date        DATE PRIMARY KEY,
			value       DOUBLE PRECISION NOT NULL,
			ingested_at TIMESTAMPTZ NOT NULL
		)`, ident),

		upsertSQL: fmt.Sprintf(`
		INSERT INTO %s (date, value, ingested_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (date) DO UPDATE SET
			value = EXCLUDED.value,
			ingested_at = EXCLUDED.ingested_at`, ident),

		selectSQL: fmt.Sprintf(`
		SELECT date, value, ingested_at
		FROM %s
		ORDER BY date DESC`, ident),
	}, nil
}

// WithClock replaces the clock used to stamp ingested_at
func (r *RateRepository) WithClock(now func() time.Time) *RateRepository {
	r.now = now
	return r
}

// Table returns the table name
func (r *RateRepository) Table() string {
	return r.table
}

// EnsureSchema creates the table if it does not exist. Existing rows are untouched.
func (r *RateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, r.schemaSQL); err != nil {
		return &contracts.StorageError{Op: "ensure_schema", Err: err}
	}
	return nil
}

// Upsert inserts the date or replaces its value and ingested_at
func (r *RateRepository) Upsert(ctx context.Context, date time.Time, value float64) error {
	if _, err := r.pool.Exec(ctx, r.upsertSQL, civilDate(date), value, r.now()); err != nil {
		return &contracts.StorageError{Op: "upsert", Err: err}
	}
	return nil
}

// UpsertBatch applies every record in one transaction: all rows or none
func (r *RateRepository) UpsertBatch(ctx context.Context, records []contracts.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &contracts.StorageError{Op: "upsert_batch", Err: fmt.Errorf("begin: %w", err)}
	}

	for _, rec := range records {
		if _, err := tx.Exec(ctx, r.upsertSQL, civilDate(rec.Date), rec.Value, r.now()); err != nil {
			_ = tx.Rollback(ctx)
			return &contracts.StorageError{Op: "upsert_batch", Err: fmt.Errorf("%s: %w", rec.Key(), err)}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &contracts.StorageError{Op: "upsert_batch", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// GetAll returns every record, most recent date first
func (r *RateRepository) GetAll(ctx context.Context) ([]contracts.RateRecord, error) {
	rows, err := r.pool.Query(ctx, r.selectSQL)
	if err != nil {
		return nil, &contracts.StorageError{Op: "get_all", Err: err}
	}
	defer rows.Close()

	records := make([]contracts.RateRecord, 0)
	for rows.Next() {
		var rec contracts.RateRecord
		if err := rows.Scan(&rec.Date, &rec.Value, &rec.IngestedAt); err != nil {
			return nil, &contracts.StorageError{Op: "get_all", Err: err}
		}
		rec.Date = civilDate(rec.Date)
		rec.IngestedAt = rec.IngestedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &contracts.StorageError{Op: "get_all", Err: err}
	}

	return records, nil
}

// Ping probes the database
func (r *RateRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return &contracts.StorageError{Op: "ping", Err: err}
	}
	return nil
}

// systemClock matches the microsecond precision of TIMESTAMPTZ
func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// civilDate drops the clock and zone, keeping the calendar day
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
