package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
	_ "github.com/trinodb/trino-go-client/trino"
)

const (
	DriverTrino  = "trino"
	DriverDuckDB = "duckdb"
)

type Config struct {
	Driver  string
	Host    string
	Port    int
	User    string
	Catalog string
	Schema  string
	// SourceSchema qualifies the benchmark source tables, e.g. tpch.sf10.
	SourceSchema string
	// ScaleFactor is only used by the duckdb driver to size dbgen output.
	ScaleFactor float64
}

// Open returns a database handle for the configured engine together with the
// dialect that renders its DDL. The handle is reused for the whole run.
func Open(ctx context.Context, cfg Config) (*sql.DB, Dialect, error) {
	switch cfg.Driver {
	case DriverTrino:
		return openTrino(ctx, cfg)
	case DriverDuckDB:
		return openDuckDB(ctx, cfg)
	default:
		return nil, nil, fmt.Errorf("unknown engine driver: %q", cfg.Driver)
	}
}

func openTrino(ctx context.Context, cfg Config) (*sql.DB, Dialect, error) {
	if cfg.Host == "" {
		return nil, nil, fmt.Errorf("engine host is required")
	}
	if cfg.User == "" {
		return nil, nil, fmt.Errorf("engine user is required")
	}

	dsn := fmt.Sprintf("http://%s@%s:%d?catalog=%s&schema=%s", cfg.User, cfg.Host, cfg.Port, cfg.Catalog, cfg.Schema)
	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open trino: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping trino: %w", err)
	}

	return db, TrinoDialect{Catalog: cfg.Catalog, Schema: cfg.Schema, SourceSchema: cfg.SourceSchema}, nil
}

func openDuckDB(ctx context.Context, cfg Config) (*sql.DB, Dialect, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, nil, fmt.Errorf("open duckdb: %w", err)
	}
	// One in-memory database, one connection: dbgen output must stay visible
	// to every later statement.
	db.SetMaxOpenConns(1)

	dialect := DuckDBDialect{ScaleFactor: cfg.ScaleFactor}
	for _, stmt := range dialect.SetupStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("duckdb setup %q: %w", stmt, err)
		}
	}

	return db, dialect, nil
}
