package quantifier

import (
	"math"
	"testing"

	"go-image-quantifier/pkg/models"
)

func TestMeasureKnownValues(t *testing.T) {
	arr := NewIntensityArray(2, 2)
	copy(arr.Pix, []float32{1, 2, 3, 4})

	m := NewMeasurer()
	values, err := m.Measure(arr, nil, DefaultMeasurementSpec())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := map[models.MeasurementKey]float64{
		models.KeyForegroundArea: 4,
		models.KeySumIntensity:   10,
		models.KeyMeanIntensity:  2.5,
		models.KeyStdDev:         math.Sqrt(1.25), // population variance: ((1.5)^2+(0.5)^2+(0.5)^2+(1.5)^2)/4
		models.KeyMinIntensity:   1,
		models.KeyMaxIntensity:   4,
	}
	for key, want := range expected {
		got, ok := values[key]
		if !ok {
			t.Errorf("Missing value for %s", key)
			continue
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected %s = %v, got %v", key, want, got)
		}
	}
}

func TestMeasureRespectsMask(t *testing.T) {
	arr := NewIntensityArray(2, 2)
	copy(arr.Pix, []float32{10, 200, 10, 200})

	mask := NewMask(2, 2)
	mask.Bits[1] = true
	mask.Bits[3] = true

	m := NewMeasurer()
	values, err := m.Measure(arr, mask, DefaultMeasurementSpec())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if values[models.KeyForegroundArea] != 2 {
		t.Errorf("Expected area 2, got %v", values[models.KeyForegroundArea])
	}
	if values[models.KeySumIntensity] != 400 {
		t.Errorf("Expected sum 400, got %v", values[models.KeySumIntensity])
	}
	if values[models.KeyStdDev] != 0 {
		t.Errorf("Expected zero deviation over a uniform foreground, got %v", values[models.KeyStdDev])
	}
}

func TestMeanTimesAreaEqualsSum(t *testing.T) {
	arr := NewIntensityArray(16, 16)
	for i := range arr.Pix {
		arr.Pix[i] = float32((i * 37) % 256)
	}
	th := NewThresholder()
	mask, _, err := th.Apply(arr, ThresholdConfig{Method: MethodOtsu})
	if err != nil {
		t.Fatalf("Unexpected threshold error: %v", err)
	}

	m := NewMeasurer()
	values, err := m.Measure(arr, mask, DefaultMeasurementSpec())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	area := values[models.KeyForegroundArea]
	if area == 0 {
		t.Fatal("Expected non-empty foreground")
	}
	product := values[models.KeyMeanIntensity] * area
	sum := values[models.KeySumIntensity]
	if math.Abs(product-sum) > 1e-6*math.Max(1, math.Abs(sum)) {
		t.Errorf("Expected mean*area ~ sum, got %v vs %v", product, sum)
	}
}

func TestMeasureEmptyForeground(t *testing.T) {
	arr := NewIntensityArray(3, 3)
	mask := NewMask(3, 3) // all background

	m := NewMeasurer()
	values, err := m.Measure(arr, mask, DefaultMeasurementSpec())
	if err != nil {
		t.Fatalf("Empty foreground must not raise, got %v", err)
	}

	if values[models.KeyForegroundArea] != 0 {
		t.Errorf("Expected area 0, got %v", values[models.KeyForegroundArea])
	}
	if values[models.KeySumIntensity] != 0 {
		t.Errorf("Expected sum 0 over empty foreground, got %v", values[models.KeySumIntensity])
	}
	for _, key := range []models.MeasurementKey{
		models.KeyMeanIntensity, models.KeyStdDev, models.KeyMinIntensity, models.KeyMaxIntensity,
	} {
		if !math.IsNaN(values[key]) {
			t.Errorf("Expected NaN sentinel for %s over empty foreground, got %v", key, values[key])
		}
	}
}

func TestMeasureSubsetSpecOnly(t *testing.T) {
	arr := NewIntensityArray(2, 2)
	copy(arr.Pix, []float32{5, 5, 5, 5})

	spec, err := NewMeasurementSpec([]string{"sum_intensity", "foreground_area"})
	if err != nil {
		t.Fatalf("Unexpected spec error: %v", err)
	}

	m := NewMeasurer()
	values, err := m.Measure(arr, nil, spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("Expected only the 2 requested values, got %d", len(values))
	}
	if values[models.KeySumIntensity] != 20 {
		t.Errorf("Expected sum 20, got %v", values[models.KeySumIntensity])
	}
}

func TestMeasureMaskDimensionMismatch(t *testing.T) {
	arr := NewIntensityArray(4, 4)
	mask := NewMask(2, 2)

	m := NewMeasurer()
	if _, err := m.Measure(arr, mask, DefaultMeasurementSpec()); err == nil {
		t.Error("Expected error for mismatched mask dimensions")
	}
}

func TestMeasureEmptyArray(t *testing.T) {
	m := NewMeasurer()
	if _, err := m.Measure(NewIntensityArray(0, 0), nil, DefaultMeasurementSpec()); err == nil {
		t.Error("Expected error for empty intensity array")
	}
}
