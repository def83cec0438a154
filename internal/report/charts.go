package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/trinobench/trinobench/internal/bench"
)

var (
	queryBarColor    = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	creationBarColor = color.RGBA{R: 144, G: 238, B: 144, A: 255}
)

// RenderCharts writes one bar chart per query plus a creation-time chart into
// outputDir and returns the written paths.
func RenderCharts(summary bench.Summary, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(summary.QueryNames)+1)

	for i, name := range summary.QueryNames {
		values := make(plotter.Values, 0, len(summary.Tables))
		for _, table := range summary.Tables {
			values = append(values, chartValue(querySecondsAt(summary, table, i)))
		}
		path := filepath.Join(outputDir, fmt.Sprintf("execution_time_query_%d.png", i+1))
		title := fmt.Sprintf("Average Execution Time for %s", name)
		if err := renderBarChart(path, title, "Execution Time (seconds)", summary.Tables, values, queryBarColor); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	creationValues := make(plotter.Values, 0, len(summary.Tables))
	for _, table := range summary.Tables {
		creationValues = append(creationValues, chartValue(summary.AvgCreationSeconds[table]))
	}
	path := filepath.Join(outputDir, "table_creation_times.png")
	if err := renderBarChart(path, "Average Table Creation Times", "Creation Time (seconds)", summary.Tables, creationValues, creationBarColor); err != nil {
		return nil, err
	}
	paths = append(paths, path)

	return paths, nil
}

func renderBarChart(path, title, yLabel string, labels []string, values plotter.Values, barColor color.Color) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Table Name"
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("build bar chart %q: %w", title, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1
	p.X.Tick.Label.YAlign = -0.5

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %q: %w", path, err)
	}
	return nil
}

// chartValue maps always-failed query slots to a zero bar so one broken
// query does not abort the whole chart.
func chartValue(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	return seconds
}
