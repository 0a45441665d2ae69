package models

// QuantificationRequest carries one fully-resolved batch quantification
// job. The surrounding layer (CLI flags or HTTP body) fills it in; the
// core never prompts for missing values.
type QuantificationRequest struct {
	Directory       string   `json:"directory" binding:"required"`
	ThresholdMethod string   `json:"threshold_method,omitempty"`
	ManualLevel     int      `json:"manual_level,omitempty"`
	Measurements    []string `json:"measurements,omitempty"`
	ExportPath      string   `json:"export_path,omitempty"`
	Format          string   `json:"format,omitempty"`
	DecimalPlaces   int      `json:"decimal_places,omitempty"`
	UploadReport    bool     `json:"upload_report,omitempty"`
}

// ErrorResponse represents an error response
// Moved from transport package for shared usage
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// QuantificationResponse is the JSON shape returned by the HTTP surface.
// Measurement values are pointers so that "no data" cells (empty
// foreground) serialize as null instead of breaking JSON encoding.
type QuantificationResponse struct {
	Rows       []ResultRowJSON `json:"rows"`
	Outcome    RunOutcome      `json:"outcome"`
	Summary    string          `json:"summary"`
	ExportPath string          `json:"export_path,omitempty"`
}

// ResultRowJSON mirrors ResultRow with JSON-safe values.
type ResultRowJSON struct {
	Image            string                      `json:"image"`
	ThresholdApplied string                      `json:"threshold_applied"`
	Values           map[MeasurementKey]*float64 `json:"values"`
}
