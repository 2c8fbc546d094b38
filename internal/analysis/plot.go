package analysis

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	apperrors "diamondprep/internal/errors"
)

// PlotOptions labels a chart and spaces its ticks. A zero step keeps the
// default ticker.
type PlotOptions struct {
	Title     string
	XLabel    string
	YLabel    string
	XTickStep float64
	YTickStep float64
	Bins      int
	Width     vg.Length
	Height    vg.Length
}

// PriceHistogram plots price with 50 bins and a tick every 1000 dollars
var PriceHistogram = PlotOptions{
	Title:     "Price",
	XLabel:    "Price in Dollars",
	YLabel:    "Nr of Diamonds",
	XTickStep: 1000,
	YTickStep: 1000,
	Bins:      50,
}

// CaratHistogram plots carat with 50 bins and a tick every 0.5 carat
var CaratHistogram = PlotOptions{
	Title:     "Carat",
	XLabel:    "Carat",
	YLabel:    "Nr of Diamonds",
	XTickStep: 0.5,
	YTickStep: 1000,
	Bins:      50,
}

const maxTicks = 1000

// stepTicks places a labelled tick at every multiple of Step
type stepTicks struct {
	Step float64
}

// Ticks implements plot.Ticker
func (s stepTicks) Ticks(min, max float64) []plot.Tick {
	if s.Step <= 0 || max < min || (max-min)/s.Step > maxTicks {
		return plot.DefaultTicks{}.Ticks(min, max)
	}

	// label precision follows the step, 0.5 -> one decimal
	decimals := 0
	if step := strconv.FormatFloat(s.Step, 'f', -1, 64); strings.Contains(step, ".") {
		decimals = len(step) - strings.Index(step, ".") - 1
	}

	var ticks []plot.Tick
	first := math.Ceil(min / s.Step)
	for k := first; k*s.Step <= max+s.Step*1e-9; k++ {
		v := k * s.Step
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', decimals, 64)})
	}
	if len(ticks) < 2 {
		return plot.DefaultTicks{}.Ticks(min, max)
	}
	return ticks
}

func newPlot(opts PlotOptions) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	if opts.XTickStep > 0 {
		p.X.Tick.Marker = stepTicks{Step: opts.XTickStep}
	}
	if opts.YTickStep > 0 {
		p.Y.Tick.Marker = stepTicks{Step: opts.YTickStep}
	}
	return p
}

func savePlot(p *plot.Plot, opts PlotOptions, path string) error {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 10 * vg.Inch
	}
	if height <= 0 {
		height = 6 * vg.Inch
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create plot directory", err).WithContext("path", path)
	}
	if err := p.Save(width, height, path); err != nil {
		return apperrors.NewStorageError("failed to save plot", err).WithContext("path", path)
	}
	return nil
}

// SaveHistogram renders a histogram of values to path; the extension picks
// the image format.
func SaveHistogram(values []float64, opts PlotOptions, path string) error {
	bins := opts.Bins
	if bins <= 0 {
		bins = 50
	}
	if len(values) == 0 {
		return apperrors.NewAppValidationError("no values to plot")
	}

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}

	p := newPlot(opts)
	p.Add(h)
	return savePlot(p, opts, path)
}

// SaveCountPlot renders one bar per category in the given order
func SaveCountPlot(counts []ValueCount, opts PlotOptions, path string) error {
	if len(counts) == 0 {
		return apperrors.NewAppValidationError("no categories to plot")
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		labels[i] = c.Value
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}

	p := newPlot(opts)
	p.Add(bars)
	p.NominalX(labels...)
	return savePlot(p, opts, path)
}
