package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteAgeHistogram renders a histogram of customer ages to a PNG file.
func WriteAgeHistogram(path string, ages []int, bins int) error {
	if len(ages) == 0 {
		return fmt.Errorf("no ages to plot")
	}
	if bins <= 0 {
		bins = 20
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	values := make(plotter.Values, len(ages))
	for i, age := range ages {
		values[i] = float64(age)
	}

	p := plot.New()
	p.Title.Text = "Histogram of Customer Ages"
	p.X.Label.Text = "Age"
	p.Y.Label.Text = "Frequency"

	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(hist)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}

	slog.Info("wrote customer age histogram",
		slog.String("path", path),
		slog.Int("sample_count", len(ages)),
		slog.Int("bins", bins))

	return nil
}
