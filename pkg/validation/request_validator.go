package validation

import (
	"fmt"
	"strings"

	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/pkg/models"
)

// RequestValidator checks a quantification request once, before the core
// executes. The core itself never prompts for missing values.
type RequestValidator struct {
	pathValidator *PathValidator
}

// NewRequestValidator creates a request validator with default settings
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		pathValidator: NewPathValidator(),
	}
}

// ValidateRequest validates a fully-resolved quantification request.
func (v *RequestValidator) ValidateRequest(req *models.QuantificationRequest) error {
	if strings.TrimSpace(req.Directory) == "" {
		return apperrors.NewValidationError("input directory is required", nil)
	}

	switch req.ThresholdMethod {
	case "", "none", "manual", "otsu":
	default:
		return apperrors.NewValidationError(
			fmt.Sprintf("unknown threshold method %q (want none, manual or otsu)", req.ThresholdMethod), nil)
	}
	if req.ThresholdMethod == "manual" && (req.ManualLevel < 0 || req.ManualLevel > 255) {
		return apperrors.NewInvalidThresholdError(
			fmt.Sprintf("manual threshold level %d outside [0,255]", req.ManualLevel), nil)
	}

	seen := make(map[string]bool, len(req.Measurements))
	for _, raw := range req.Measurements {
		if !models.IsKnownMeasurementKey(models.MeasurementKey(raw)) {
			return apperrors.NewValidationError(fmt.Sprintf("unknown measurement key %q", raw), nil)
		}
		if seen[raw] {
			return apperrors.NewValidationError(fmt.Sprintf("duplicate measurement key %q", raw), nil)
		}
		seen[raw] = true
	}

	if req.DecimalPlaces < 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("decimal places must be >= 0 (got %d)", req.DecimalPlaces), nil)
	}

	if req.ExportPath != "" {
		if err := v.pathValidator.ValidateExportPath(req.ExportPath); err != nil {
			return err
		}
	}
	if req.Format != "" && req.Format != "csv" && req.Format != "xlsx" {
		return apperrors.NewValidationError(
			fmt.Sprintf("unknown export format %q (want csv or xlsx)", req.Format), nil)
	}

	return nil
}
