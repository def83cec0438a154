package engine

import (
	"fmt"
	"strings"
)

// TableSpec describes one benchmark table variant. Name maps to exactly one
// option set; re-creation is always CREATE OR REPLACE.
type TableSpec struct {
	Name   string
	Source string

	BloomFilterColumns []string
	SortedBy           []string
}

// Dialect renders engine-specific DDL for the benchmark tables.
type Dialect interface {
	Name() string
	// CreateSchemaSQL returns the schema bootstrap statement, or "" when the
	// engine needs none.
	CreateSchemaSQL(warehouseBucket string) string
	CreateTableSQL(spec TableSpec) string
}

type TrinoDialect struct {
	Catalog      string
	Schema       string
	SourceSchema string
}

func (TrinoDialect) Name() string { return DriverTrino }

func (d TrinoDialect) CreateSchemaSQL(warehouseBucket string) string {
	return fmt.Sprintf(
		"CREATE SCHEMA IF NOT EXISTS %s.%s WITH (location = 's3a://%s/%s')",
		d.Catalog, d.Schema, warehouseBucket, d.Schema,
	)
}

func (d TrinoDialect) CreateTableSQL(spec TableSpec) string {
	options := []string{"format = 'PARQUET'"}
	if len(spec.SortedBy) > 0 {
		options = append(options, fmt.Sprintf("sorted_by = %s", stringArray(spec.SortedBy)))
	}
	if len(spec.BloomFilterColumns) > 0 {
		options = append(options, fmt.Sprintf("parquet_bloom_filter_columns = %s", stringArray(spec.BloomFilterColumns)))
	}
	return fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s WITH (%s) AS SELECT * FROM %s.%s",
		spec.Name, strings.Join(options, ", "), d.SourceSchema, spec.Source,
	)
}

// DuckDBDialect drives the local engine used for smoke runs. DuckDB has no
// Parquet bloom-filter table option, so that variant degrades to plain
// storage; sorted variants keep their physical ordering through ORDER BY.
type DuckDBDialect struct {
	ScaleFactor float64
}

func (DuckDBDialect) Name() string { return DriverDuckDB }

func (d DuckDBDialect) SetupStatements() []string {
	sf := d.ScaleFactor
	if sf <= 0 {
		sf = 0.1
	}
	return []string{
		"INSTALL tpch",
		"LOAD tpch",
		fmt.Sprintf("CALL dbgen(sf = %g)", sf),
	}
}

func (DuckDBDialect) CreateSchemaSQL(string) string { return "" }

func (DuckDBDialect) CreateTableSQL(spec TableSpec) string {
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s", spec.Name, spec.Source)
	if len(spec.SortedBy) > 0 {
		stmt += " ORDER BY " + strings.Join(spec.SortedBy, ", ")
	}
	return stmt
}

func stringArray(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, "'"+strings.ReplaceAll(value, "'", "''")+"'")
	}
	return "ARRAY[" + strings.Join(quoted, ", ") + "]"
}
