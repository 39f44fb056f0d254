package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/stojg/bestfit/leastsquares"
)

// w/h - A4 (1:1.414)
const (
	plotWidth  = vg.Length(1024)
	plotHeight = vg.Length(1024 * (1 / 1.414))
)

func plotScatter(p *plot.Plot, obs *observations, line leastsquares.Line) error {
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	scatter, err := plotter.NewScatter(obs)
	if err != nil {
		return fmt.Errorf("could not create scatter plot: %v", err)
	}
	scatter.GlyphStyle.Shape = draw.CrossGlyph{}
	scatter.Color = color.RGBA{R: 90, G: 180, B: 234, A: 255}
	p.Legend.Add("observations", scatter)
	p.Add(scatter)

	// the regression line slope*x + intercept
	l, err := addRegressionLine(p, scatter, line)
	if err != nil {
		return err
	}
	l.Color = color.RGBA{20, 100, 240, 255}

	centroid, err := addCentroid(p, obs)
	if err != nil {
		return err
	}

	addLabels(p,
		line.String(),
		fmt.Sprintf("R²: %0.4f", leastsquares.RSquared(obs.x, obs.y, line)),
		fmt.Sprintf("centroid: (%0.2f, %0.2f)", centroid.X, centroid.Y),
		fmt.Sprintf("data points: %d", obs.Len()),
	)

	return nil
}

// addLabels adds legend entries without a thumbnail.
func addLabels(p *plot.Plot, texts ...string) {
	for _, text := range texts {
		p.Legend.Add(text)
	}
}

// histogram plots the distribution of the residuals y - ŷ.
func histogram(p *plot.Plot, obs *observations, line leastsquares.Line) error {
	residuals := make(plotter.Values, obs.Len())
	for i := range obs.x {
		residuals[i] = obs.y[i] - line.Predict(obs.x[i])
	}

	h, err := plotter.NewHist(residuals, 16)
	if err != nil {
		return fmt.Errorf("could not create histogram: %v", err)
	}

	p.Add(h)

	p.X.Label.Text = "residual"
	p.Y.Label.Text = "freq"

	addLabels(p, fmt.Sprintf("SSE: %0.4f", leastsquares.SSE(obs.x, obs.y, line)))

	return nil
}

const timespanFormat = "2006-01-02 15:04"

func addTimespanLabel(p *plot.Plot, period *Period) {
	addLabels(p, period.Start().Format(timespanFormat)+" - "+period.End().Format(timespanFormat))
}

func addRegressionLine(p *plot.Plot, s *plotter.Scatter, line leastsquares.Line) (*plotter.Line, error) {
	min, max, _, _ := s.DataRange()
	l, err := plotter.NewLine(plotter.XYs{
		{X: min, Y: line.Predict(min)}, {X: max, Y: line.Predict(max)},
	})
	if err != nil {
		return l, fmt.Errorf("could not create regression line: %v", err)
	}
	p.Add(l)
	return l, nil
}

// addCentroid marks the mean of the observations. A least-squares line with an
// intercept always passes through it.
func addCentroid(p *plot.Plot, obs *observations) (plotter.XY, error) {
	c := plotter.XY{X: stat.Mean(obs.x, nil), Y: stat.Mean(obs.y, nil)}
	marker, err := plotter.NewScatter(plotter.XYs{c})
	if err != nil {
		return c, fmt.Errorf("could not mark centroid: %w", err)
	}
	marker.Shape = draw.CircleGlyph{}
	marker.Radius = vg.Points(4)
	marker.Color = color.RGBA{R: 240, G: 80, B: 20, A: 255}
	p.Add(marker)
	return c, nil
}

func createPlot(label string) *plot.Plot {
	p := plot.New()
	p.Title.Text = label
	p.Legend.Left = true
	p.Legend.Top = true
	return p
}

// imageFormat picks the plot encoding from a file extension.
func imageFormat(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff":
		return ext
	}
	return defaultImageFormat
}

func writePlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return fmt.Errorf("could not create writer: %v", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("could not write plot: %v", err)
	}
	return nil
}

func savePlot(path string, p *plot.Plot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %v", path, err)
	}
	if err := writePlot(f, p, imageFormat(path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close output file %v", err)
	}
	return nil
}
