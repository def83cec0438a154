package bench

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the averaged benchmark results in reporting order.
type Summary struct {
	Engine             string
	Runs               int
	StartedAt          time.Time
	Tables             []string
	QueryNames         []string
	AvgQuerySeconds    map[string][]float64
	AvgCreationSeconds map[string]float64
	RowCounts          map[string]int64
}

// Summarize averages the collected runs into a report-ready summary.
func Summarize(data RunData) Summary {
	return Summary{
		Engine:             data.Engine,
		Runs:               len(data.CreationTimes),
		StartedAt:          data.StartedAt,
		Tables:             CustomerTables(),
		QueryNames:         QueryNames(),
		AvgQuerySeconds:    AverageQueryTimes(data.QueryTimes),
		AvgCreationSeconds: AverageCreationTimes(data.CreationTimes),
		RowCounts:          data.RowCounts,
	}
}

// AverageCreationTimes computes the arithmetic mean of per-table creation
// durations across runs, in seconds.
func AverageCreationTimes(runs []map[string]time.Duration) map[string]float64 {
	if len(runs) == 0 {
		return map[string]float64{}
	}
	averages := make(map[string]float64, len(runs[0]))
	for table := range runs[0] {
		samples := make([]float64, 0, len(runs))
		for _, run := range runs {
			if elapsed, ok := run[table]; ok {
				samples = append(samples, elapsed.Seconds())
			}
		}
		averages[table] = stat.Mean(samples, nil)
	}
	return averages
}

// AverageQueryTimes computes per-table per-query means across runs. Failed
// slots are excluded; a slot that failed in every run averages to NaN.
func AverageQueryTimes(runs []map[string][]QuerySample) map[string][]float64 {
	if len(runs) == 0 {
		return map[string][]float64{}
	}
	averages := make(map[string][]float64, len(runs[0]))
	for table, firstRun := range runs[0] {
		queryAverages := make([]float64, len(firstRun))
		for i := range firstRun {
			samples := make([]float64, 0, len(runs))
			for _, run := range runs {
				slots, ok := run[table]
				if !ok || i >= len(slots) || !slots[i].OK {
					continue
				}
				samples = append(samples, slots[i].Seconds)
			}
			if len(samples) == 0 {
				queryAverages[i] = math.NaN()
				continue
			}
			queryAverages[i] = stat.Mean(samples, nil)
		}
		averages[table] = queryAverages
	}
	return averages
}
