package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/trinobench/trinobench/internal/bench"
)

// Print writes the averaged benchmark results as aligned tables.
func Print(w io.Writer, summary bench.Summary) error {
	fmt.Fprintf(w, "Benchmark results (engine=%s, runs=%d, started=%s)\n\n",
		summary.Engine, summary.Runs, summary.StartedAt.Format("2006-01-02 15:04:05 MST"))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprint(tw, "TABLE")
	for _, name := range summary.QueryNames {
		fmt.Fprintf(tw, "\t%s", strings.ToUpper(name))
	}
	fmt.Fprintln(tw)

	for _, table := range summary.Tables {
		fmt.Fprint(tw, table)
		for i := range summary.QueryNames {
			fmt.Fprintf(tw, "\t%s", formatSeconds(querySecondsAt(summary, table, i)))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush query table: %w", err)
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tAVG CREATION\tROWS")
	for _, table := range append([]string{bench.OrdersTable}, summary.Tables...) {
		creation, ok := summary.AvgCreationSeconds[table]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", table, formatSeconds(creation), summary.RowCounts[table])
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush creation table: %w", err)
	}

	return nil
}

func querySecondsAt(summary bench.Summary, table string, index int) float64 {
	averages, ok := summary.AvgQuerySeconds[table]
	if !ok || index >= len(averages) {
		return math.NaN()
	}
	return averages[index]
}

func formatSeconds(seconds float64) string {
	if math.IsNaN(seconds) {
		return "failed"
	}
	return fmt.Sprintf("%.3fs", seconds)
}
