package quantifier

import (
	"fmt"

	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/pkg/models"
)

// ThresholdMethod selects how the foreground mask is derived.
type ThresholdMethod string

const (
	MethodNone   ThresholdMethod = "none"
	MethodManual ThresholdMethod = "manual"
	MethodOtsu   ThresholdMethod = "otsu"
)

// ThresholdConfig describes the thresholding step of a run. ManualLevel
// is only meaningful when Method is MethodManual and must lie in [0,255];
// the user enters it on the 8-bit scale, and thresholding happens on the
// 8-bit-equivalent data before any measurement.
type ThresholdConfig struct {
	Method      ThresholdMethod
	ManualLevel int
}

// Validate rejects malformed configurations before any file is touched.
func (c ThresholdConfig) Validate() error {
	switch c.Method {
	case MethodNone, MethodOtsu:
		return nil
	case MethodManual:
		if c.ManualLevel < 0 || c.ManualLevel > 255 {
			return apperrors.NewInvalidThresholdError(
				fmt.Sprintf("manual threshold level %d outside [0,255]", c.ManualLevel), nil)
		}
		return nil
	default:
		return apperrors.NewInvalidThresholdError(
			fmt.Sprintf("unknown threshold method %q", c.Method), nil)
	}
}

type thresholder struct{}

// NewThresholder creates the default thresholder implementation.
func NewThresholder() Thresholder {
	return &thresholder{}
}

// Apply derives the foreground mask for cfg. With MethodNone it returns a
// nil mask and the NoThreshold sentinel, which the measurer treats as
// all-foreground.
func (t *thresholder) Apply(arr *IntensityArray, cfg ThresholdConfig) (*Mask, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, models.NoThreshold, err
	}

	switch cfg.Method {
	case MethodNone:
		return nil, models.NoThreshold, nil
	case MethodManual:
		return maskAtLevel(arr, cfg.ManualLevel), cfg.ManualLevel, nil
	default:
		level := otsuLevel(histogram256(arr))
		return maskAtLevel(arr, level), level, nil
	}
}

// histogram256 bins the 8-bit-equivalent intensities. Values are clamped
// into [0,255] so that out-of-range float noise cannot index out of
// bounds.
func histogram256(arr *IntensityArray) [256]int {
	var hist [256]int
	for _, v := range arr.Pix {
		bin := int(v)
		if bin < 0 {
			bin = 0
		} else if bin > 255 {
			bin = 255
		}
		hist[bin]++
	}
	return hist
}

// otsuLevel selects the threshold t* maximizing the between-class
// variance w0(t)*w1(t)*(mu0(t)-mu1(t))^2, where pixels with value >= t
// form the foreground class. Ties resolve to the smallest t. An image
// with a single constant intensity has zero variance everywhere, so the
// initial candidate t=0 (all-foreground) wins.
func otsuLevel(hist [256]int) int {
	total := 0
	sumAll := 0.0
	for level, count := range hist {
		total += count
		sumAll += float64(level) * float64(count)
	}
	if total == 0 {
		return 0
	}

	best := 0
	bestScore := 0.0
	backCount := 0
	backSum := 0.0
	for t := 1; t < 256; t++ {
		// Background absorbs bin t-1; foreground is everything >= t.
		backCount += hist[t-1]
		backSum += float64(t-1) * float64(hist[t-1])

		foreCount := total - backCount
		if backCount == 0 || foreCount == 0 {
			continue
		}

		w0 := float64(backCount) / float64(total)
		w1 := float64(foreCount) / float64(total)
		mu0 := backSum / float64(backCount)
		mu1 := (sumAll - backSum) / float64(foreCount)
		diff := mu0 - mu1
		score := w0 * w1 * diff * diff

		if score > bestScore {
			bestScore = score
			best = t
		}
	}
	return best
}

// maskAtLevel marks every pixel with intensity >= level as foreground.
func maskAtLevel(arr *IntensityArray, level int) *Mask {
	mask := NewMask(arr.Width, arr.Height)
	threshold := float32(level)
	for i, v := range arr.Pix {
		if v >= threshold {
			mask.Bits[i] = true
		}
	}
	return mask
}
