package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderChartsWritesOneFilePerQueryPlusCreation(t *testing.T) {
	dir := t.TempDir()
	summary := testSummary()

	paths, err := RenderCharts(summary, dir)
	if err != nil {
		t.Fatalf("RenderCharts() error = %v", err)
	}
	if len(paths) != len(summary.QueryNames)+1 {
		t.Fatalf("len(paths) = %d, want %d", len(paths), len(summary.QueryNames)+1)
	}

	for i := range summary.QueryNames {
		want := filepath.Join(dir, fmt.Sprintf("execution_time_query_%d.png", i+1))
		if paths[i] != want {
			t.Fatalf("paths[%d] = %q, want %q", i, paths[i], want)
		}
	}
	if paths[len(paths)-1] != filepath.Join(dir, "table_creation_times.png") {
		t.Fatalf("creation chart path = %q", paths[len(paths)-1])
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %q: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("chart %q is empty", path)
		}
	}
}

func TestRenderChartsToleratesFailedSlots(t *testing.T) {
	summary := testSummary()
	for _, table := range summary.Tables {
		summary.AvgQuerySeconds[table][0] = math.NaN()
	}

	if _, err := RenderCharts(summary, t.TempDir()); err != nil {
		t.Fatalf("RenderCharts() error = %v", err)
	}
}

func TestChartValue(t *testing.T) {
	if got := chartValue(math.NaN()); got != 0 {
		t.Fatalf("chartValue(NaN) = %v", got)
	}
	if got := chartValue(-1); got != 0 {
		t.Fatalf("chartValue(-1) = %v", got)
	}
	if got := chartValue(1.5); got != 1.5 {
		t.Fatalf("chartValue(1.5) = %v", got)
	}
}
