package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/trinobench/trinobench/internal/bench"
)

// Repository archives averaged benchmark results so runs can be compared
// over time. It owns two tables: bench_run (one row per harness invocation)
// and bench_measurement (one row per averaged metric).
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS bench_run (
	run_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	engine TEXT NOT NULL,
	runs INT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`
CREATE TABLE IF NOT EXISTS bench_measurement (
	run_id BIGINT NOT NULL REFERENCES bench_run (run_id),
	table_name TEXT NOT NULL,
	phase TEXT NOT NULL,
	query_name TEXT NOT NULL DEFAULT '',
	avg_seconds DOUBLE PRECISION NOT NULL,
	row_count BIGINT
)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure archive schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) insertRun(ctx context.Context, summary bench.Summary) (int64, error) {
	query := `
INSERT INTO bench_run (engine, runs, started_at)
VALUES ($1, $2, $3)
RETURNING run_id`
	var runID int64
	if err := r.db.QueryRowContext(ctx, query, summary.Engine, summary.Runs, summary.StartedAt.UTC()).Scan(&runID); err != nil {
		return 0, fmt.Errorf("insert bench run: %w", err)
	}
	return runID, nil
}

func (r *Repository) insertMeasurement(ctx context.Context, runID int64, table, phase, queryName string, avgSeconds float64, rowCount *int64) error {
	query := `
INSERT INTO bench_measurement (run_id, table_name, phase, query_name, avg_seconds, row_count)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, runID, table, phase, queryName, avgSeconds, rowCount); err != nil {
		return fmt.Errorf("insert measurement %s/%s: %w", table, phase, err)
	}
	return nil
}

// ArchiveSummary stores one run header plus every averaged creation and
// query metric. Always-failed query slots (NaN averages) are skipped.
func (r *Repository) ArchiveSummary(ctx context.Context, summary bench.Summary) (int64, error) {
	runID, err := r.insertRun(ctx, summary)
	if err != nil {
		return 0, err
	}

	for _, spec := range bench.TableSpecs() {
		avg, ok := summary.AvgCreationSeconds[spec.Name]
		if !ok {
			continue
		}
		var rowCount *int64
		if count, ok := summary.RowCounts[spec.Name]; ok {
			rowCount = &count
		}
		if err := r.insertMeasurement(ctx, runID, spec.Name, "create", "", avg, rowCount); err != nil {
			return 0, err
		}
	}

	for _, table := range summary.Tables {
		averages := summary.AvgQuerySeconds[table]
		for i, avg := range averages {
			if math.IsNaN(avg) {
				continue
			}
			name := ""
			if i < len(summary.QueryNames) {
				name = summary.QueryNames[i]
			}
			if err := r.insertMeasurement(ctx, runID, table, "query", name, avg, nil); err != nil {
				return 0, err
			}
		}
	}

	return runID, nil
}
