package report

import (
	"os"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/trinobench/trinobench/internal/bench"
)

func TestBuildMeasurementsFlattensRuns(t *testing.T) {
	creation := map[string]time.Duration{}
	for _, spec := range bench.TableSpecs() {
		creation[spec.Name] = 10 * time.Second
	}
	queries := map[string][]bench.QuerySample{}
	for _, table := range bench.CustomerTables() {
		queries[table] = []bench.QuerySample{
			{Seconds: 1, OK: true},
			{OK: false},
		}
	}

	data := bench.RunData{
		Engine:        "trino",
		CreationTimes: []map[string]time.Duration{creation, creation},
		QueryTimes:    []map[string][]bench.QuerySample{queries, queries},
	}

	measurements := BuildMeasurements(data)
	wantPerRun := len(bench.TableSpecs()) + len(bench.CustomerTables())*2
	if len(measurements) != 2*wantPerRun {
		t.Fatalf("len(measurements) = %d, want %d", len(measurements), 2*wantPerRun)
	}

	if measurements[0].Phase != PhaseCreate || measurements[0].Run != 1 {
		t.Fatalf("first measurement = %+v", measurements[0])
	}

	var failed int
	for _, m := range measurements {
		if m.Phase == PhaseQuery && !m.OK {
			failed++
			if m.Query == "" {
				t.Fatalf("query measurement missing name: %+v", m)
			}
		}
	}
	if failed != 2*len(bench.CustomerTables()) {
		t.Fatalf("failed slots = %d", failed)
	}
}

func TestWriteMeasurementsRoundTrips(t *testing.T) {
	dir := t.TempDir()
	measurements := []Measurement{
		{Run: 1, Table: bench.OrdersTable, Phase: PhaseCreate, Seconds: 120.5, OK: true},
		{Run: 1, Table: "customer_table_with_bloom_filter", Phase: PhaseQuery, Query: "point_lookup", Seconds: 0.42, OK: true},
	}

	path, err := WriteMeasurements(dir, measurements)
	if err != nil {
		t.Fatalf("WriteMeasurements() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %q: %v", path, err)
	}
	defer func() { _ = file.Close() }()
	info, err := file.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	rows, err := parquet.Read[Measurement](file, info.Size())
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != len(measurements) {
		t.Fatalf("len(rows) = %d", len(rows))
	}
	if rows[1].Query != "point_lookup" || rows[1].Seconds != 0.42 {
		t.Fatalf("rows[1] = %+v", rows[1])
	}
}
