package quantifier

import (
	"image"
	"image/draw"
)

// IntensityArray holds one decoded image as 32-bit floating-point
// intensities on the native 0-255 grayscale scale. Scaling is disabled on
// conversion: the values are never rescaled to a fixed range, so sums and
// means stay physically meaningful. Each array is scoped to a single
// file's processing and is released before the next file begins.
type IntensityArray struct {
	Width  int
	Height int
	Pix    []float32 // row-major, Pix[y*Width+x]
}

// NewIntensityArray allocates a zeroed intensity array.
func NewIntensityArray(width, height int) *IntensityArray {
	return &IntensityArray{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// IntensityFromImage converts a decoded image to an intensity array.
// The image is first reduced to 8-bit grayscale, then each gray level is
// carried into the float grid verbatim.
func IntensityFromImage(img image.Image) *IntensityArray {
	bounds := img.Bounds()
	gray, ok := img.(*image.Gray)
	if !ok {
		gray = image.NewGray(bounds)
		draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	}

	arr := NewIntensityArray(bounds.Dx(), bounds.Dy())
	for y := 0; y < arr.Height; y++ {
		rowStart := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < arr.Width; x++ {
			arr.Pix[y*arr.Width+x] = float32(gray.Pix[rowStart+x])
		}
	}
	return arr
}

// At returns the intensity at (x, y).
func (a *IntensityArray) At(x, y int) float32 {
	return a.Pix[y*a.Width+x]
}

// Set stores an intensity at (x, y).
func (a *IntensityArray) Set(x, y int, v float32) {
	a.Pix[y*a.Width+x] = v
}

// Len returns the total pixel count.
func (a *IntensityArray) Len() int {
	return len(a.Pix)
}

// Mask is an optional foreground selection over an intensity array: true
// where a pixel is foreground. It always shares dimensions with the array
// it was derived from and is never persisted independently.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-background mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// Covers reports whether the mask dimensions match the array's.
func (m *Mask) Covers(a *IntensityArray) bool {
	return m.Width == a.Width && m.Height == a.Height
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}
