package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/trinobench/trinobench/internal/bench"
)

func testSummary() bench.Summary {
	tables := bench.CustomerTables()
	avgQuery := make(map[string][]float64, len(tables))
	avgCreation := make(map[string]float64, len(tables)+1)
	rowCounts := make(map[string]int64, len(tables)+1)

	for i, table := range tables {
		avgQuery[table] = []float64{0.5 + float64(i), 0.25, 1.5, 2.0}
		avgCreation[table] = 30 + float64(i)
		rowCounts[table] = 1500000
	}
	avgCreation[bench.OrdersTable] = 120
	rowCounts[bench.OrdersTable] = 15000000

	return bench.Summary{
		Engine:             "trino",
		Runs:               3,
		StartedAt:          time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
		Tables:             tables,
		QueryNames:         bench.QueryNames(),
		AvgQuerySeconds:    avgQuery,
		AvgCreationSeconds: avgCreation,
		RowCounts:          rowCounts,
	}
}

func TestPrintListsEveryVariantAndQuery(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, testSummary()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	out := buf.String()

	for _, table := range bench.CustomerTables() {
		if !strings.Contains(out, table) {
			t.Fatalf("output missing table %q:\n%s", table, out)
		}
	}
	for _, name := range bench.QueryNames() {
		if !strings.Contains(out, strings.ToUpper(name)) {
			t.Fatalf("output missing query column %q:\n%s", name, out)
		}
	}
	if !strings.Contains(out, bench.OrdersTable) {
		t.Fatalf("output missing orders creation row:\n%s", out)
	}
	if !strings.Contains(out, "15000000") {
		t.Fatalf("output missing orders row count:\n%s", out)
	}
}

func TestPrintMarksAlwaysFailedSlots(t *testing.T) {
	summary := testSummary()
	summary.AvgQuerySeconds["customer_table_with_sorting"][2] = math.NaN()

	var buf bytes.Buffer
	if err := Print(&buf, summary); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.Contains(buf.String(), "failed") {
		t.Fatalf("output should mark failed slot:\n%s", buf.String())
	}
}
