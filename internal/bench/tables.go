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

// OrdersTable is the join-side table. It is created once per run like the
// variants but is not itself benchmarked.
const OrdersTable = "orders_table_without_bloom_filter"

const keyColumn = "custkey"

// TableSpecs returns every table the benchmark provisions, orders first.
// Each name maps to exactly one option set.
func TableSpecs() []engine.TableSpec {
	return []engine.TableSpec{
		{Name: OrdersTable, Source: "orders"},
		{Name: "customer_table_without_bloom_filter", Source: "customer"},
		{Name: "customer_table_with_bloom_filter", Source: "customer", BloomFilterColumns: []string{keyColumn}},
		{Name: "customer_table_with_sorting", Source: "customer", SortedBy: []string{keyColumn}},
		{Name: "customer_table_with_sorting_and_bloom_filter", Source: "customer", SortedBy: []string{keyColumn}, BloomFilterColumns: []string{keyColumn}},
	}
}

// CustomerTables returns the benchmarked variants in reporting order.
func CustomerTables() []string {
	tables := make([]string, 0, 4)
	for _, spec := range TableSpecs() {
		if spec.Name != OrdersTable {
			tables = append(tables, spec.Name)
		}
	}
	return tables
}

// Provisioner creates the benchmark schema and tables. Setup failures are
// fatal: they are logged and returned wrapped, never retried.
type Provisioner struct {
	DB              *sql.DB
	Dialect         engine.Dialect
	WarehouseBucket string
	Logger          *slog.Logger
}

func (p *Provisioner) CreateSchema(ctx context.Context) error {
	stmt := p.Dialect.CreateSchemaSQL(p.WarehouseBucket)
	if stmt == "" {
		return nil
	}
	if _, err := engine.ExecuteDDL(ctx, p.DB, stmt); err != nil {
		p.logError(ctx, "failed to create schema", err)
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateTables provisions every table, timing each CTAS and capturing the
// resulting row count. Re-running is safe: the DDL carries replace semantics.
func (p *Provisioner) CreateTables(ctx context.Context) (map[string]time.Duration, map[string]int64, error) {
	creationTimes := make(map[string]time.Duration)
	rowCounts := make(map[string]int64)

	for _, spec := range TableSpecs() {
		elapsed, err := engine.ExecuteDDL(ctx, p.DB, p.Dialect.CreateTableSQL(spec))
		if err != nil {
			p.logError(ctx, "failed to create table", err, slog.String("table", spec.Name))
			return nil, nil, fmt.Errorf("create table %s: %w", spec.Name, err)
		}
		creationTimes[spec.Name] = elapsed
		observability.ObserveTableCreation(spec.Name, elapsed)

		count, err := engine.CountRows(ctx, p.DB, spec.Name)
		if err != nil {
			p.logError(ctx, "failed to count table rows", err, slog.String("table", spec.Name))
			return nil, nil, fmt.Errorf("count rows %s: %w", spec.Name, err)
		}
		rowCounts[spec.Name] = count

		if p.Logger != nil {
			p.Logger.InfoContext(ctx, "table created",
				slog.String("table", spec.Name),
				slog.Duration("elapsed", elapsed),
				slog.Int64("rows", count),
			)
		}
	}

	return creationTimes, rowCounts, nil
}

func (p *Provisioner) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if p.Logger == nil {
		return
	}
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.Any("error", err))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	p.Logger.ErrorContext(ctx, msg, args...)
}
