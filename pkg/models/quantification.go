package models

import "fmt"

// MeasurementKey identifies a single per-image statistic that can be
// requested from the quantification pipeline.
type MeasurementKey string

const (
	KeyForegroundArea MeasurementKey = "foreground_area"
	KeyMeanIntensity  MeasurementKey = "mean_intensity"
	KeyStdDev         MeasurementKey = "std_dev"
	KeyMinIntensity   MeasurementKey = "min_intensity"
	KeyMaxIntensity   MeasurementKey = "max_intensity"
	KeySumIntensity   MeasurementKey = "sum_intensity"
)

// measurementColumns maps each key to the column name used in exported
// tables. The names follow the ImageJ results-table convention.
var measurementColumns = map[MeasurementKey]string{
	KeyForegroundArea: "Area",
	KeyMeanIntensity:  "Mean",
	KeyStdDev:         "StdDev",
	KeyMinIntensity:   "Min",
	KeyMaxIntensity:   "Max",
	KeySumIntensity:   "IntDen",
}

// AllMeasurementKeys returns every recognized key in the default column
// order.
func AllMeasurementKeys() []MeasurementKey {
	return []MeasurementKey{
		KeyForegroundArea,
		KeyMeanIntensity,
		KeyStdDev,
		KeyMinIntensity,
		KeyMaxIntensity,
		KeySumIntensity,
	}
}

// IsKnownMeasurementKey reports whether key names a supported statistic.
func IsKnownMeasurementKey(key MeasurementKey) bool {
	_, ok := measurementColumns[key]
	return ok
}

// ColumnName returns the exported column name for a measurement key.
// Unknown keys fall back to their raw string form.
func ColumnName(key MeasurementKey) string {
	if name, ok := measurementColumns[key]; ok {
		return name
	}
	return string(key)
}

// NoThreshold is the ThresholdApplied value recorded when no mask was
// derived; it serializes as "-" in exported tables.
const NoThreshold = -1

// ResultRow is one output record corresponding to one successfully
// processed image. Rows are appended in enumeration order and never
// mutated afterwards.
type ResultRow struct {
	Image            string                     `json:"image"`
	ThresholdApplied int                        `json:"threshold_applied"`
	Values           map[MeasurementKey]float64 `json:"-"`
}

// RunOutcome accumulates per-file outcomes across a batch run.
type RunOutcome struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Summary renders the run outcome as the canonical one-line summary that
// every caller-visible log reproduces.
func (o RunOutcome) Summary() string {
	return fmt.Sprintf("Summary: processed=%d, skipped=%d, errors=%d.", o.Processed, o.Skipped, o.Errors)
}

// BatchResult bundles the rows and outcome of one batch run together with
// the export destination, when an export was performed.
type BatchResult struct {
	Rows       []ResultRow `json:"rows"`
	Outcome    RunOutcome  `json:"outcome"`
	ExportPath string      `json:"export_path,omitempty"`
}
