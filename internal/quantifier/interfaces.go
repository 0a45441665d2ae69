package quantifier

import (
	"context"

	"go-image-quantifier/pkg/models"
)

// Thresholder derives an optional foreground mask from an intensity
// array. A nil mask means every pixel is foreground.
type Thresholder interface {
	// Apply returns the mask and the threshold level that produced it.
	// The level is models.NoThreshold when no mask was derived.
	Apply(arr *IntensityArray, cfg ThresholdConfig) (*Mask, int, error)
}

// Measurer computes the requested statistic set over an intensity array,
// restricted to the mask's foreground when a mask is present.
type Measurer interface {
	Measure(arr *IntensityArray, mask *Mask, spec MeasurementSpec) (map[models.MeasurementKey]float64, error)
}

// BatchRunner orchestrates listing, thresholding and measuring over a
// directory, one file at a time, in stabilized enumeration order.
type BatchRunner interface {
	Run(ctx context.Context, directory string, cfg ThresholdConfig, spec MeasurementSpec) ([]models.ResultRow, models.RunOutcome, error)
}
