package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/trinobench/trinobench/internal/bench"
)

const (
	PhaseCreate = "create"
	PhaseQuery  = "query"
)

// Measurement is one raw sample behind the averages: a single table creation
// or query execution within a single run.
type Measurement struct {
	Run     int32   `parquet:"run"`
	Table   string  `parquet:"table"`
	Phase   string  `parquet:"phase"`
	Query   string  `parquet:"query"`
	Seconds float64 `parquet:"seconds"`
	OK      bool    `parquet:"ok"`
}

// BuildMeasurements flattens collected run data into parquet rows, creations
// first within each run, then queries in execution order.
func BuildMeasurements(data bench.RunData) []Measurement {
	queryNames := bench.QueryNames()
	measurements := make([]Measurement, 0)

	for runIndex, creationTimes := range data.CreationTimes {
		for _, spec := range bench.TableSpecs() {
			elapsed, ok := creationTimes[spec.Name]
			if !ok {
				continue
			}
			measurements = append(measurements, Measurement{
				Run:     int32(runIndex + 1),
				Table:   spec.Name,
				Phase:   PhaseCreate,
				Seconds: elapsed.Seconds(),
				OK:      true,
			})
		}

		if runIndex >= len(data.QueryTimes) {
			continue
		}
		queryTimes := data.QueryTimes[runIndex]
		for _, table := range bench.CustomerTables() {
			for i, sample := range queryTimes[table] {
				name := ""
				if i < len(queryNames) {
					name = queryNames[i]
				}
				measurements = append(measurements, Measurement{
					Run:     int32(runIndex + 1),
					Table:   table,
					Phase:   PhaseQuery,
					Query:   name,
					Seconds: sample.Seconds,
					OK:      sample.OK,
				})
			}
		}
	}

	return measurements
}

// WriteMeasurements stores the raw samples as measurements.parquet under
// outputDir and returns the written path.
func WriteMeasurements(outputDir string, measurements []Measurement) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outputDir, "measurements.parquet")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[Measurement](file)
	if _, err := writer.Write(measurements); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("close parquet writer: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close parquet file: %w", err)
	}

	return path, nil
}
