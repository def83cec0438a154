package bench

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/trinobench/trinobench/internal/engine"
	"github.com/trinobench/trinobench/internal/observability"
)

// QuerySample is one timed execution slot. OK is false when the query failed
// and the slot must be excluded from averaging.
type QuerySample struct {
	Seconds float64
	OK      bool
}

// Runner executes the fixed query list against every variant table. A failed
// query is logged and skipped; the run always continues.
type Runner struct {
	DB *sql.DB
	// QueryTimeout bounds each query when positive; zero leaves the engine's
	// own defaults in charge.
	QueryTimeout time.Duration
	Logger       *slog.Logger
}

func (r *Runner) BenchmarkQueries(ctx context.Context) map[string][]QuerySample {
	templates := QueryTemplates()
	results := make(map[string][]QuerySample, len(CustomerTables()))

	for _, table := range CustomerTables() {
		samples := make([]QuerySample, 0, len(templates))
		for _, template := range templates {
			result, err := r.execute(ctx, template.Render(table))
			if err != nil {
				observability.IncrementQueryFailure(table, template.Name)
				if r.Logger != nil {
					r.Logger.ErrorContext(ctx, "failed to execute query",
						slog.String("table", table),
						slog.String("query", template.Name),
						slog.Any("error", err),
					)
				}
				samples = append(samples, QuerySample{OK: false})
				continue
			}
			observability.ObserveQuery(table, template.Name, result.Duration)
			samples = append(samples, QuerySample{Seconds: result.Duration.Seconds(), OK: true})
		}
		results[table] = samples
	}

	return results
}

func (r *Runner) execute(ctx context.Context, sqlText string) (engine.Result, error) {
	if r.QueryTimeout > 0 {
		timeoutCtx, cancel := context.WithTimeout(ctx, r.QueryTimeout)
		defer cancel()
		return engine.Execute(timeoutCtx, r.DB, sqlText)
	}
	return engine.Execute(ctx, r.DB, sqlText)
}

// RunData accumulates per-run measurements across the whole benchmark.
type RunData struct {
	Engine        string
	StartedAt     time.Time
	CreationTimes []map[string]time.Duration
	QueryTimes    []map[string][]QuerySample
	// RowCounts come from the last run; the source data is fixed, so every
	// run reports the same counts.
	RowCounts map[string]int64
}

// Harness drives the full benchmark: N runs of provision-then-query against
// one reused connection pool.
type Harness struct {
	DB              *sql.DB
	Dialect         engine.Dialect
	WarehouseBucket string
	Runs            int
	QueryTimeout    time.Duration
	Logger          *slog.Logger
	Clock           func() time.Time
}

func (h *Harness) Run(ctx context.Context) (RunData, error) {
	if h.Runs <= 0 {
		h.Runs = 3
	}
	if h.Clock == nil {
		h.Clock = time.Now
	}

	provisioner := &Provisioner{
		DB:              h.DB,
		Dialect:         h.Dialect,
		WarehouseBucket: h.WarehouseBucket,
		Logger:          h.Logger,
	}
	runner := &Runner{DB: h.DB, QueryTimeout: h.QueryTimeout, Logger: h.Logger}

	data := RunData{
		Engine:    h.Dialect.Name(),
		StartedAt: h.Clock().UTC(),
	}

	if err := provisioner.CreateSchema(ctx); err != nil {
		return RunData{}, err
	}

	for run := 1; run <= h.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return RunData{}, fmt.Errorf("benchmark interrupted: %w", err)
		}
		if h.Logger != nil {
			h.Logger.InfoContext(ctx, "benchmark run started", slog.Int("run", run), slog.Int("total", h.Runs))
		}

		creationTimes, rowCounts, err := provisioner.CreateTables(ctx)
		if err != nil {
			return RunData{}, fmt.Errorf("run %d: %w", run, err)
		}
		data.CreationTimes = append(data.CreationTimes, creationTimes)
		data.RowCounts = rowCounts

		data.QueryTimes = append(data.QueryTimes, runner.BenchmarkQueries(ctx))
	}

	return data, nil
}
