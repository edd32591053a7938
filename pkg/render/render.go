// Package render locates the peak of a radiance series and draws one chart
// per temperature: the radiance curve over wavelength with a marker at the
// peak wavelength.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	// ErrEmptyInput is returned when there is no data to find a peak in
	ErrEmptyInput = errors.New("render: empty radiance series")
	// ErrLengthMismatch is returned when wavelengths and radiance disagree in length
	ErrLengthMismatch = errors.New("render: wavelength and radiance lengths differ")
)

// Peak is the point of maximum radiance in a series
type Peak struct {
	Index      int
	Wavelength float64 // meters
	Radiance   float64 // W·m⁻³·sr⁻¹
}

// FindPeak returns the peak of the radiance series and its wavelength.
// Ties resolve to the first index achieving the maximum.
func FindPeak(wavelengths, radiance []float64) (Peak, error) {
	if len(radiance) == 0 || len(wavelengths) == 0 {
		return Peak{}, ErrEmptyInput
	}
	if len(radiance) != len(wavelengths) {
		return Peak{}, fmt.Errorf("%w: %d wavelengths, %d radiance values",
			ErrLengthMismatch, len(wavelengths), len(radiance))
	}

	idx := floats.MaxIdx(radiance)
	return Peak{
		Index:      idx,
		Wavelength: wavelengths[idx],
		Radiance:   radiance[idx],
	}, nil
}

// PlotConfig controls the chart dimensions and the fixed y-axis range
type PlotConfig struct {
	YMax   float64   // y-axis upper bound, fixed so a frame sequence keeps a consistent scale
	Width  vg.Length // chart width
	Height vg.Length // chart height
}

// DefaultPlotConfig returns the config used for the 4500-7000 K sweep
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		YMax:   7e13,
		Width:  8 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// PlotRenderer draws radiance charts with gonum/plot. It holds no state
// between frames; each Render call builds and disposes its own plot, so a
// single renderer is safe to share across concurrent frames.
type PlotRenderer struct {
	config PlotConfig
}

// NewPlotRenderer creates a renderer, filling in defaults for zero fields
func NewPlotRenderer(config PlotConfig) *PlotRenderer {
	defaults := DefaultPlotConfig()
	if config.YMax <= 0 {
		config.YMax = defaults.YMax
	}
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.Height <= 0 {
		config.Height = defaults.Height
	}
	return &PlotRenderer{config: config}
}

// Render draws the radiance curve for one temperature and writes the chart
// to w as PNG bytes. It fails without writing anything if the series is
// empty or misaligned with the wavelength grid.
func (r *PlotRenderer) Render(w io.Writer, wavelengths, radiance []float64, temp float64) error {
	peak, err := FindPeak(wavelengths, radiance)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Blackbody Function for T = %g K", temp)
	p.X.Label.Text = "Wavelength (m)"
	p.Y.Label.Text = "Spectral Radiance (W m^-3 sr^-1)"
	p.Y.Min = 0
	p.Y.Max = r.config.YMax

	curve := make(plotter.XYs, len(wavelengths))
	for i := range wavelengths {
		curve[i].X = wavelengths[i]
		curve[i].Y = radiance[i]
	}
	curveLine, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("failed to build radiance curve: %w", err)
	}
	curveLine.Color = color.RGBA{B: 255, A: 255}

	marker, err := plotter.NewLine(plotter.XYs{
		{X: peak.Wavelength, Y: 0},
		{X: peak.Wavelength, Y: peak.Radiance},
	})
	if err != nil {
		return fmt.Errorf("failed to build peak marker: %w", err)
	}
	marker.Color = color.RGBA{R: 255, A: 255}
	marker.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(curveLine, marker)
	p.Legend.Add("Blackbody Function", curveLine)
	p.Legend.Add(fmt.Sprintf("Peak Wavelength = %g m", roundTo(peak.Wavelength, 10)), marker)
	p.Legend.Top = true

	writerTo, err := p.WriterTo(r.config.Width, r.config.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to rasterize chart: %w", err)
	}
	if _, err := writerTo.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// roundTo rounds x to the given number of decimal places
func roundTo(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(x*scale) / scale
}
