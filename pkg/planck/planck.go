package planck

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Physical constants in SI units
const (
	PlanckConstant    = 6.62607015e-34 // J·s
	SpeedOfLight      = 299792458      // m/s
	BoltzmannConstant = 1.380649e-23   // J/K
)

// Radiance returns the spectral radiance of a black body at the given
// wavelength (meters) and temperature (Kelvin) using Planck's law, in
// W·m⁻³·sr⁻¹. The caller must supply a strictly positive wavelength;
// a zero wavelength produces Inf/NaN rather than an error.
func Radiance(wavelength, temp float64) float64 {
	numerator := 2 * PlanckConstant * SpeedOfLight * SpeedOfLight / math.Pow(wavelength, 5)
	exponent := PlanckConstant * SpeedOfLight / (wavelength * temp * BoltzmannConstant)
	// Expm1 keeps the denominator accurate when the exponent is near zero
	// (long wavelengths or high temperatures).
	return numerator / math.Expm1(exponent)
}

// Curve evaluates Planck's law at every wavelength in the grid and returns
// the radiance series, index-aligned with the input. Each entry is computed
// independently; an empty grid yields an empty series.
func Curve(wavelengths []float64, temp float64) []float64 {
	radiance := make([]float64, len(wavelengths))
	for i, wavelength := range wavelengths {
		radiance[i] = Radiance(wavelength, temp)
	}
	return radiance
}

// Grid returns n linearly spaced wavelengths from min to max inclusive.
// Wavelengths must be strictly positive, so non-positive or inverted bounds
// are rejected here, before any radiance computation sees them.
func Grid(min, max float64, n int) ([]float64, error) {
	if min <= 0 || max <= 0 {
		return nil, fmt.Errorf("wavelength bounds must be positive, got [%g, %g]", min, max)
	}
	if min >= max {
		return nil, fmt.Errorf("wavelength bounds must be increasing, got [%g, %g]", min, max)
	}
	if n < 2 {
		return nil, fmt.Errorf("wavelength grid needs at least 2 points, got %d", n)
	}
	return floats.Span(make([]float64, n), min, max), nil
}
