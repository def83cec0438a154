package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/trinobench/trinobench/internal/bench"
)

func TestArchiveSummaryInsertsRunAndMeasurements(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	startedAt := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	summary := bench.Summary{
		Engine:     "trino",
		Runs:       3,
		StartedAt:  startedAt,
		Tables:     []string{"customer_table_with_bloom_filter"},
		QueryNames: []string{"point_lookup", "range_count"},
		AvgQuerySeconds: map[string][]float64{
			"customer_table_with_bloom_filter": {0.5, math.NaN()},
		},
		AvgCreationSeconds: map[string]float64{
			bench.OrdersTable: 120,
		},
		RowCounts: map[string]int64{
			bench.OrdersTable: 15000000,
		},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`
INSERT INTO bench_run (engine, runs, started_at)
VALUES ($1, $2, $3)
RETURNING run_id`)).
		WithArgs("trino", 3, startedAt).
		WillReturnRows(sqlmock.NewRows([]string{"run_id"}).AddRow(int64(7)))

	mock.ExpectExec(regexp.QuoteMeta(`
INSERT INTO bench_measurement (run_id, table_name, phase, query_name, avg_seconds, row_count)
VALUES ($1, $2, $3, $4, $5, $6)`)).
		WithArgs(int64(7), bench.OrdersTable, "create", "", float64(120), int64(15000000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta(`
INSERT INTO bench_measurement (run_id, table_name, phase, query_name, avg_seconds, row_count)
VALUES ($1, $2, $3, $4, $5, $6)`)).
		WithArgs(int64(7), "customer_table_with_bloom_filter", "query", "point_lookup", 0.5, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	runID, err := repo.ArchiveSummary(context.Background(), summary)
	if err != nil {
		t.Fatalf("ArchiveSummary() error = %v", err)
	}
	if runID != 7 {
		t.Fatalf("runID = %d", runID)
	}
	assertSQLMock(t, mock)
}

func TestArchiveSummaryPropagatesInsertError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	dbErr := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(`
INSERT INTO bench_run (engine, runs, started_at)
VALUES ($1, $2, $3)
RETURNING run_id`)).
		WillReturnError(dbErr)

	_, err := repo.ArchiveSummary(context.Background(), bench.Summary{Engine: "trino", Runs: 1, StartedAt: time.Now()})
	if err == nil {
		t.Fatal("expected insert error")
	}
	if !errors.Is(err, dbErr) {
		t.Fatalf("error chain lost db error: %v", err)
	}
	assertSQLMock(t, mock)
}

func TestEnsureSchemaCreatesBothTables(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bench_run").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bench_measurement").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open(context.Background(), DBConfig{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
