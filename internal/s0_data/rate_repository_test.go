package s0_data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
)

var fixedNow = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newMockRepo(t *testing.T) (*RateRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo, err := NewRateRepository(mock, "")
	require.NoError(t, err)
	repo.WithClock(func() time.Time { return fixedNow })

	return repo, mock
}

func TestNewRateRepository_TableName(t *testing.T) {
	tests := []struct {
		table   string
		wantErr bool
	}{
		{"", false},
		{"selic_series", false},
		{"intake.selic_series", false},
		{"selic; DROP TABLE x", true},
		{"1table", true},
		{"a.b.c", true},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			repo, err := NewRateRepository(nil, tt.table)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, repo.Table())
		})
	}
}

func TestSystemClock_MicrosecondPrecision(t *testing.T) {
	for i := 0; i < 5; i++ {
		now := systemClock()
		assert.Zero(t, now.Nanosecond()%int(time.Microsecond))
		assert.Equal(t, time.UTC, now.Location())
	}
}

// stampArg matches any time.Time argument and keeps it
type stampArg struct {
	got *time.Time
}

func (a stampArg) Match(v interface{}) bool {
	t, ok := v.(time.Time)
	if ok {
		*a.got = t
	}
	return ok
}

func TestRateRepository_DefaultClockStampIsStorable(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	repo, err := NewRateRepository(mock, "")
	require.NoError(t, err)

	var stamped time.Time
	mock.ExpectExec(repo.upsertSQL).
		WithArgs(day(2024, 1, 1), 11.75, stampArg{got: &stamped}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Upsert(context.Background(), day(2024, 1, 1), 11.75))

	// TIMESTAMPTZ keeps microseconds, so the stored value reads back unchanged
	require.False(t, stamped.IsZero())
	assert.True(t, stamped.Equal(stamped.Truncate(time.Microsecond)))
	assert.Equal(t, time.UTC, stamped.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_QueriesAreParameterized(t *testing.T) {
	repo, err := NewRateRepository(nil, "intake.selic_series")
	require.NoError(t, err)

	assert.Contains(t, repo.upsertSQL, `"intake"."selic_series"`)
	assert.Contains(t, repo.upsertSQL, "VALUES ($1, $2, $3)")
	assert.Contains(t, repo.upsertSQL, "ON CONFLICT (date) DO UPDATE")
	assert.Contains(t, repo.selectSQL, "ORDER BY date DESC")
	assert.Contains(t, repo.schemaSQL, "CREATE TABLE IF NOT EXISTS")
}

func TestRateRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(repo.schemaSQL).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(repo.schemaSQL).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	// Safe to call on every start
	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_EnsureSchemaError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(repo.schemaSQL).WillReturnError(errors.New("permission denied"))

	err := repo.EnsureSchema(context.Background())

	var sErr *contracts.StorageError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "ensure_schema", sErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_Upsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(repo.upsertSQL).
		WithArgs(day(2023, 12, 31), 11.75, fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// A non-midnight time is stored as its calendar day
	at := time.Date(2023, 12, 31, 18, 45, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(context.Background(), at, 11.75))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_UpsertError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(repo.upsertSQL).
		WithArgs(day(2024, 1, 1), 11.75, fixedNow).
		WillReturnError(errors.New("connection reset"))

	err := repo.Upsert(context.Background(), day(2024, 1, 1), 11.75)

	var sErr *contracts.StorageError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "upsert", sErr.Op)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_UpsertBatch(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(repo.upsertSQL).WithArgs(day(2023, 12, 31), 11.75, fixedNow).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(repo.upsertSQL).WithArgs(day(2024, 1, 1), 11.75, fixedNow).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.UpsertBatch(context.Background(), []contracts.RateRecord{
		{Date: day(2023, 12, 31), Value: 11.75},
		{Date: day(2024, 1, 1), Value: 11.75},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_UpsertBatchRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(repo.upsertSQL).WithArgs(day(2023, 12, 31), 11.75, fixedNow).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(repo.upsertSQL).WithArgs(day(2024, 1, 1), 11.75, fixedNow).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.UpsertBatch(context.Background(), []contracts.RateRecord{
		{Date: day(2023, 12, 31), Value: 11.75},
		{Date: day(2024, 1, 1), Value: 11.75},
		{Date: day(2024, 1, 2), Value: 11.75},
	})

	var sErr *contracts.StorageError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "upsert_batch", sErr.Op)
	assert.Contains(t, err.Error(), "2024-01-01")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_UpsertBatchBeginError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := repo.UpsertBatch(context.Background(), []contracts.RateRecord{{Date: day(2024, 1, 1), Value: 1}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too many connections")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_UpsertBatchCommitError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(repo.upsertSQL).WithArgs(day(2024, 1, 1), 1.0, fixedNow).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := repo.UpsertBatch(context.Background(), []contracts.RateRecord{{Date: day(2024, 1, 1), Value: 1}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_UpsertBatchEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	require.NoError(t, repo.UpsertBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_GetAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	later := fixedNow.Add(time.Hour)
	rows := pgxmock.NewRows([]string{"date", "value", "ingested_at"}).
		AddRow(day(2024, 1, 1), 11.75, later).
		AddRow(day(2023, 12, 31), 12.0, fixedNow)
	mock.ExpectQuery(repo.selectSQL).WillReturnRows(rows)

	records, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "01/01/2024", records[0].DisplayDate())
	assert.Equal(t, 11.75, records[0].Value)
	assert.Equal(t, later, records[0].IngestedAt)
	assert.Equal(t, "31/12/2023", records[1].DisplayDate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_GetAllEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(repo.selectSQL).WillReturnRows(pgxmock.NewRows([]string{"date", "value", "ingested_at"}))

	records, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_GetAllError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(repo.selectSQL).WillReturnError(errors.New("relation does not exist"))

	_, err := repo.GetAll(context.Background())

	var sErr *contracts.StorageError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "get_all", sErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_Ping(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("server closed the connection"))

	assert.NoError(t, repo.Ping(context.Background()))

	err := repo.Ping(context.Background())
	var sErr *contracts.StorageError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "ping", sErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}
