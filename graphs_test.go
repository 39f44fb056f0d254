package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stojg/bestfit/leastsquares"
)

func TestWritePlot(t *testing.T) {
	obs, err := builtinDataset("challenger")
	require.NoError(t, err)
	line, err := leastsquares.Fit(obs.x, obs.y)
	require.NoError(t, err)

	p := createPlot("challenger")
	require.NoError(t, plotScatter(p, obs, line))

	var buf bytes.Buffer
	require.NoError(t, writePlot(&buf, p, "png"))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestHistogram(t *testing.T) {
	obs := &observations{x: []float64{1, 2, 3, 4}, y: []float64{1, 3, 2, 4}}
	line, err := leastsquares.Fit(obs.x, obs.y)
	require.NoError(t, err)

	p := createPlot("residuals")
	require.NoError(t, histogram(p, obs, line))
	require.Equal(t, "residual", p.X.Label.Text)
}

func TestRunWritesPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fit.svg")
	cfg := testConfig()
	cfg.dataset = "challenger:7"
	cfg.plotPath = path

	code, _, stderr := runWith(t, cfg, "")
	require.Equal(t, 0, code, stderr)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "<?xml"))
}

func TestImageFormat(t *testing.T) {
	require.Equal(t, "png", imageFormat("fit.png"))
	require.Equal(t, "svg", imageFormat("fit.SVG"))
	require.Equal(t, "pdf", imageFormat("/tmp/fit.pdf"))
	require.Equal(t, "png", imageFormat("fit"))
}

func TestAddCentroid(t *testing.T) {
	obs := &observations{x: []float64{1, 2, 3}, y: []float64{2, 4, 9}}
	p := createPlot("centroid")

	c, err := addCentroid(p, obs)
	require.NoError(t, err)
	require.Equal(t, 2.0, c.X)
	require.Equal(t, 5.0, c.Y)

	line, err := leastsquares.Fit(obs.x, obs.y)
	require.NoError(t, err)
	require.InDelta(t, c.Y, line.Predict(c.X), 1e-9)
}

func TestTimespanLabel(t *testing.T) {
	p := createPlot("cloudwatch")
	addTimespanLabel(p, NewPeriod(testNow, 7*Day))

	var buf bytes.Buffer
	require.NoError(t, writePlot(&buf, p, "svg"))
	require.Contains(t, buf.String(), "2026-10-10 12:34 - 2026-10-17 12:34")
}
