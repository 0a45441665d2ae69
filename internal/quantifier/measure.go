package quantifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go-image-quantifier/pkg/models"
)

type measurer struct{}

// NewMeasurer creates the default statistic calculator.
func NewMeasurer() Measurer {
	return &measurer{}
}

// Measure computes the statistics named by spec over the foreground
// pixels of arr. A nil mask selects every pixel. Computation stays at
// full precision; decimal rounding is applied only when serializing.
//
// An empty foreground (the threshold excluded every pixel) is not an
// error: area and sum are 0 and the remaining statistics are NaN, the
// documented "no data" sentinel.
func (m *measurer) Measure(arr *IntensityArray, mask *Mask, spec MeasurementSpec) (map[models.MeasurementKey]float64, error) {
	if arr == nil || arr.Len() == 0 {
		return nil, fmt.Errorf("empty intensity array")
	}
	if mask != nil && !mask.Covers(arr) {
		return nil, fmt.Errorf("mask dimensions %dx%d do not match image %dx%d",
			mask.Width, mask.Height, arr.Width, arr.Height)
	}

	foreground := collectForeground(arr, mask)
	area := float64(len(foreground))

	values := make(map[models.MeasurementKey]float64, spec.Len())
	for _, key := range spec.Keys() {
		switch key {
		case models.KeyForegroundArea:
			values[key] = area
		case models.KeySumIntensity:
			values[key] = floats.Sum(foreground)
		case models.KeyMeanIntensity:
			values[key] = guarded(foreground, func() float64 { return stat.Mean(foreground, nil) })
		case models.KeyStdDev:
			values[key] = guarded(foreground, func() float64 { return stat.PopStdDev(foreground, nil) })
		case models.KeyMinIntensity:
			values[key] = guarded(foreground, func() float64 { return floats.Min(foreground) })
		case models.KeyMaxIntensity:
			values[key] = guarded(foreground, func() float64 { return floats.Max(foreground) })
		default:
			return nil, fmt.Errorf("unknown measurement key %q", key)
		}
	}
	return values, nil
}

// collectForeground gathers the measured values into a dense vector for
// the gonum routines. Memory stays bounded to one image's worth of
// pixels.
func collectForeground(arr *IntensityArray, mask *Mask) []float64 {
	if mask == nil {
		out := make([]float64, len(arr.Pix))
		for i, v := range arr.Pix {
			out[i] = float64(v)
		}
		return out
	}
	out := make([]float64, 0, len(arr.Pix))
	for i, v := range arr.Pix {
		if mask.Bits[i] {
			out = append(out, float64(v))
		}
	}
	return out
}

// guarded returns the "no data" sentinel instead of calling fn on an
// empty foreground.
func guarded(foreground []float64, fn func() float64) float64 {
	if len(foreground) == 0 {
		return math.NaN()
	}
	return fn()
}
