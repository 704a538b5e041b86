// Package report renders training results: loss/accuracy curves, a labeled
// grid of sample images, and the final console summary.
package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/inkwell-ml/inkwell/internal/train"
)

// LossCurves renders the per-epoch training and validation loss to a PNG
// file at path.
func LossCurves(h *train.History, path string) error {
	return curves("Training and Validation Losses per epoch", "Loss",
		h.Loss, h.ValLoss, path)
}

// AccuracyCurves renders the per-epoch training and validation accuracy to
// a PNG file at path.
func AccuracyCurves(h *train.History, path string) error {
	return curves("Training and Validation Accuracy per epoch", "Accuracy",
		h.Accuracy, h.ValAccuracy, path)
}

func curves(title, ylabel string, training, validation []float64, path string) error {
	if len(training) == 0 {
		return fmt.Errorf("report: no epochs to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Epoch Number"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, series := range []struct {
		name   string
		values []float64
	}{
		{"training", training},
		{"validation", validation},
	} {
		line, err := plotter.NewLine(epochSeries(series.values))
		if err != nil {
			return fmt.Errorf("report: building %s line: %w", series.name, err)
		}
		line.Width = 2
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(series.name, line)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("report: saving %s: %w", path, err)
	}
	return nil
}

// epochSeries maps values onto 1-based epoch numbers on the X axis.
func epochSeries(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	return pts
}
