package validation

import (
	"path/filepath"
	"strings"

	apperrors "go-image-quantifier/internal/errors"
)

// PathValidator handles export destination validation logic
type PathValidator struct {
	allowedExtensions []string
}

// NewPathValidator creates a path validator accepting the default report
// extensions
func NewPathValidator() *PathValidator {
	return &PathValidator{
		allowedExtensions: []string{".csv", ".xlsx"},
	}
}

// NewPathValidatorWithExtensions creates a path validator with custom extensions
func NewPathValidatorWithExtensions(extensions []string) *PathValidator {
	return &PathValidator{
		allowedExtensions: extensions,
	}
}

// ValidateExportPath validates if the provided path is acceptable as a
// report destination
func (v *PathValidator) ValidateExportPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperrors.NewValidationError("export path cannot be empty", nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return apperrors.NewValidationError("export path must carry a file extension", nil)
	}

	if !v.isExtensionAllowed(ext) {
		return apperrors.NewValidationError(
			"export path extension must be one of "+strings.Join(v.allowedExtensions, ", "), nil)
	}

	return nil
}

// isExtensionAllowed checks if the extension is in the allowed list
func (v *PathValidator) isExtensionAllowed(ext string) bool {
	for _, allowed := range v.allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
