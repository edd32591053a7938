package render

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/kykyelric/go-planck-anim/pkg/planck"
)

func TestFindPeak(t *testing.T) {
	tests := []struct {
		name           string
		wavelengths    []float64
		radiance       []float64
		expectErr      error
		expectIndex    int
		expectPeakWave float64
	}{
		{
			name:           "first occurrence wins ties",
			wavelengths:    []float64{1e-7, 2e-7, 3e-7, 4e-7, 5e-7},
			radiance:       []float64{1.0, 5.0, 3.0, 5.0, 2.0},
			expectIndex:    1,
			expectPeakWave: 2e-7,
		},
		{
			name:           "single element",
			wavelengths:    []float64{5e-7},
			radiance:       []float64{3.0},
			expectIndex:    0,
			expectPeakWave: 5e-7,
		},
		{
			name:           "peak at end",
			wavelengths:    []float64{1e-7, 2e-7, 3e-7},
			radiance:       []float64{1.0, 2.0, 9.0},
			expectIndex:    2,
			expectPeakWave: 3e-7,
		},
		{
			name:        "empty series",
			wavelengths: []float64{},
			radiance:    []float64{},
			expectErr:   ErrEmptyInput,
		},
		{
			name:        "empty radiance only",
			wavelengths: []float64{1e-7},
			radiance:    []float64{},
			expectErr:   ErrEmptyInput,
		},
		{
			name:        "length mismatch",
			wavelengths: []float64{1e-7, 2e-7},
			radiance:    []float64{1.0, 2.0, 3.0},
			expectErr:   ErrLengthMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peak, err := FindPeak(tt.wavelengths, tt.radiance)

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("Expected error %v, got %v", tt.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if peak.Index != tt.expectIndex {
				t.Errorf("Expected peak index %d, got %d", tt.expectIndex, peak.Index)
			}
			if peak.Wavelength != tt.expectPeakWave {
				t.Errorf("Expected peak wavelength %g, got %g", tt.expectPeakWave, peak.Wavelength)
			}
			if peak.Radiance != tt.radiance[tt.expectIndex] {
				t.Errorf("Peak radiance %g does not match series value %g",
					peak.Radiance, tt.radiance[tt.expectIndex])
			}
		})
	}
}

func TestPlotRenderer_ProducesPNG(t *testing.T) {
	wavelengths, err := planck.Grid(100e-9, 2e-6, 200)
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	radiance := planck.Curve(wavelengths, 5778)

	var buf bytes.Buffer
	renderer := NewPlotRenderer(DefaultPlotConfig())
	if err := renderer.Render(&buf, wavelengths, radiance, 5778); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a decodable PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		t.Errorf("Expected non-empty image, got bounds %v", bounds)
	}
}

func TestPlotRenderer_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewPlotRenderer(DefaultPlotConfig())

	err := renderer.Render(&buf, nil, nil, 5000)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Expected ErrEmptyInput, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no bytes written on failure, got %d", buf.Len())
	}
}

func TestPlotRenderer_LengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewPlotRenderer(DefaultPlotConfig())

	err := renderer.Render(&buf, []float64{1e-7, 2e-7}, []float64{1.0}, 5000)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestNewPlotRenderer_Defaults(t *testing.T) {
	renderer := NewPlotRenderer(PlotConfig{})
	defaults := DefaultPlotConfig()

	if renderer.config.YMax != defaults.YMax {
		t.Errorf("Expected default YMax %g, got %g", defaults.YMax, renderer.config.YMax)
	}
	if renderer.config.Width != defaults.Width || renderer.config.Height != defaults.Height {
		t.Errorf("Expected default dimensions %vx%v, got %vx%v",
			defaults.Width, defaults.Height, renderer.config.Width, renderer.config.Height)
	}
}

func TestRoundTo(t *testing.T) {
	if got := roundTo(6.0740740740740741e-7, 10); got != 6.074e-7 {
		t.Errorf("Expected 6.074e-7, got %g", got)
	}
	if got := roundTo(1.23456789, 3); got != 1.235 {
		t.Errorf("Expected 1.235, got %g", got)
	}
}
