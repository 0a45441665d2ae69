package quantifier

import (
	"fmt"

	"go-image-quantifier/pkg/models"
)

// MeasurementSpec is the ordered set of statistics requested for a run.
// The order defines the column order of every exported table. A spec is
// always non-empty and its keys are unique.
type MeasurementSpec struct {
	keys []models.MeasurementKey
}

// NewMeasurementSpec validates raw key names and builds a spec.
func NewMeasurementSpec(raw []string) (MeasurementSpec, error) {
	if len(raw) == 0 {
		return MeasurementSpec{}, fmt.Errorf("measurement spec must not be empty")
	}
	seen := make(map[models.MeasurementKey]bool, len(raw))
	keys := make([]models.MeasurementKey, 0, len(raw))
	for _, r := range raw {
		key := models.MeasurementKey(r)
		if !models.IsKnownMeasurementKey(key) {
			return MeasurementSpec{}, fmt.Errorf("unknown measurement key %q", r)
		}
		if seen[key] {
			return MeasurementSpec{}, fmt.Errorf("duplicate measurement key %q", r)
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return MeasurementSpec{keys: keys}, nil
}

// DefaultMeasurementSpec requests every supported statistic in the
// conventional results-table order.
func DefaultMeasurementSpec() MeasurementSpec {
	return MeasurementSpec{keys: models.AllMeasurementKeys()}
}

// Keys returns the requested keys in column order.
func (s MeasurementSpec) Keys() []models.MeasurementKey {
	out := make([]models.MeasurementKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Columns returns the display column names in spec order.
func (s MeasurementSpec) Columns() []string {
	out := make([]string, len(s.keys))
	for i, k := range s.keys {
		out[i] = models.ColumnName(k)
	}
	return out
}

// Len returns the number of requested statistics.
func (s MeasurementSpec) Len() int {
	return len(s.keys)
}
