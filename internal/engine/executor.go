package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result carries one timed query execution. Rows are fully fetched before the
// clock stops, matching how the engines report end-to-end latency.
type Result struct {
	Duration time.Duration
	Columns  []string
	Rows     [][]any
}

// Execute runs a row-returning statement and times execution plus fetch.
// The engine's own error is preserved in the wrap chain; there is no retry.
func Execute(ctx context.Context, db *sql.DB, sqlText string) (Result, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return Result{
		Duration: time.Since(start),
		Columns:  columns,
		Rows:     resultRows,
	}, nil
}

// ExecuteDDL runs a statement without a result set (schema bootstrap, CTAS)
// and times it.
func ExecuteDDL(ctx context.Context, db *sql.DB, sqlText string) (time.Duration, error) {
	start := time.Now()
	if _, err := db.ExecContext(ctx, sqlText); err != nil {
		return 0, fmt.Errorf("execute ddl: %w", err)
	}
	return time.Since(start), nil
}

// CountRows fetches a single COUNT(*) value for a table.
func CountRows(ctx context.Context, db *sql.DB, table string) (int64, error) {
	result, err := Execute(ctx, db, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err != nil {
		return 0, err
	}
	if len(result.Rows) == 0 || len(result.Rows[0]) == 0 {
		return 0, fmt.Errorf("count query for %s returned no rows", table)
	}
	count, err := toInt64(result.Rows[0][0])
	if err != nil {
		return 0, fmt.Errorf("count value for %s: %w", table, err)
	}
	return count, nil
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

func toInt64(value any) (int64, error) {
	switch typed := value.(type) {
	case int64:
		return typed, nil
	case int32:
		return int64(typed), nil
	case int:
		return int64(typed), nil
	case uint64:
		return int64(typed), nil
	case float64:
		return int64(typed), nil
	case string:
		var parsed int64
		if _, err := fmt.Sscan(typed, &parsed); err != nil {
			return 0, fmt.Errorf("parse count %q: %w", typed, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported count type %T", value)
	}
}
