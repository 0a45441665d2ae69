package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"go-image-quantifier/internal/config"
	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/internal/export"
	"go-image-quantifier/internal/logger"
	"go-image-quantifier/internal/quantifier"
	"go-image-quantifier/internal/storage"
	"go-image-quantifier/pkg/models"
	"go-image-quantifier/pkg/validation"
)

// QuantificationService defines the single entry point the surrounding
// layers (CLI, HTTP) use to run a batch quantification job.
type QuantificationService interface {
	// QuantifyDirectory runs the pipeline for one request. On export
	// failure both the partial result and the error are returned: the
	// in-memory rows stay inspectable for a retry.
	QuantifyDirectory(ctx context.Context, req models.QuantificationRequest) (*models.BatchResult, error)
}

// quantificationService wires runner, exporter and the optional report
// uploader together.
type quantificationService struct {
	runner    quantifier.BatchRunner
	uploader  storage.ReportUploader // nil when upload is not configured
	validator *validation.RequestValidator
	defaults  *config.Config
}

// NewQuantificationService creates a new quantification service
func NewQuantificationService(
	runner quantifier.BatchRunner,
	uploader storage.ReportUploader,
	cfg *config.Config,
) QuantificationService {
	return &quantificationService{
		runner:    runner,
		uploader:  uploader,
		validator: validation.NewRequestValidator(),
		defaults:  cfg,
	}
}

func (s *quantificationService) QuantifyDirectory(ctx context.Context, req models.QuantificationRequest) (*models.BatchResult, error) {
	s.applyDefaults(&req)
	if err := s.validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	thresholdConfig := quantifier.ThresholdConfig{
		Method:      quantifier.ThresholdMethod(req.ThresholdMethod),
		ManualLevel: req.ManualLevel,
	}

	spec, err := s.buildSpec(req.Measurements)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid measurement spec", err)
	}

	rows, outcome, err := s.runner.Run(ctx, req.Directory, thresholdConfig, spec)
	if err != nil {
		return nil, err
	}

	result := &models.BatchResult{
		Rows:    rows,
		Outcome: outcome,
	}
	logger.WithFields(logrus.Fields{
		"directory": req.Directory,
		"processed": outcome.Processed,
		"skipped":   outcome.Skipped,
		"errors":    outcome.Errors,
	}).Info(outcome.Summary())

	if req.ExportPath == "" {
		return result, nil
	}

	if err := s.exportResult(ctx, &req, rows, spec, outcome); err != nil {
		// The computed table is lost from persistence, not from memory.
		return result, err
	}
	result.ExportPath = req.ExportPath

	return result, nil
}

// applyDefaults fills request gaps from the process configuration so
// callers only specify what they want to override.
func (s *quantificationService) applyDefaults(req *models.QuantificationRequest) {
	if req.ThresholdMethod == "" {
		req.ThresholdMethod = s.defaults.ThresholdMethod
		if req.ThresholdMethod == string(quantifier.MethodManual) {
			req.ManualLevel = s.defaults.ManualLevel
		}
	}
	if len(req.Measurements) == 0 {
		req.Measurements = s.defaults.Measurements
	}
	if req.DecimalPlaces == 0 {
		req.DecimalPlaces = s.defaults.DecimalPlaces
	}
}

func (s *quantificationService) buildSpec(measurements []string) (quantifier.MeasurementSpec, error) {
	if len(measurements) == 0 {
		return quantifier.DefaultMeasurementSpec(), nil
	}
	return quantifier.NewMeasurementSpec(measurements)
}

func (s *quantificationService) exportResult(
	ctx context.Context,
	req *models.QuantificationRequest,
	rows []models.ResultRow,
	spec quantifier.MeasurementSpec,
	outcome models.RunOutcome,
) error {
	format := export.Format(req.Format)
	if format == "" {
		inferred, err := export.FormatForPath(req.ExportPath)
		if err != nil {
			return apperrors.NewExportError("cannot determine export format", err)
		}
		format = inferred
	}

	exporter, err := export.NewExporter(format, req.DecimalPlaces)
	if err != nil {
		return apperrors.NewExportError("cannot build exporter", err)
	}

	table := export.BuildTable(rows, spec, export.RunMetadata{
		InputDir:             req.Directory,
		ThresholdDescription: describeThreshold(req),
		Processed:            outcome.Processed,
	})
	if err := exporter.Export(table, req.ExportPath); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"destination": req.ExportPath,
		"format":      string(format),
		"rows":        len(rows),
	}).Info("Results table exported")

	if req.UploadReport && s.uploader != nil {
		if err := s.uploadReport(ctx, req.ExportPath); err != nil {
			return err
		}
	}
	return nil
}

// uploadReport pushes the already-written report to remote storage. The
// local file stays valid even when the upload fails.
func (s *quantificationService) uploadReport(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewExportError(fmt.Sprintf("cannot read exported report %q for upload", path), err)
	}
	blobName := filepath.Base(path)
	if err := s.uploader.UploadReport(ctx, blobName, data); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("failed to upload report %q", blobName), err)
	}
	logger.WithField("blob", blobName).Info("Report uploaded to remote storage")
	return nil
}

// describeThreshold renders the human-readable threshold description used
// on the report summary sheet.
func describeThreshold(req *models.QuantificationRequest) string {
	switch req.ThresholdMethod {
	case string(quantifier.MethodOtsu):
		return "Otsu automatic threshold"
	case string(quantifier.MethodManual):
		return fmt.Sprintf("Manual threshold at %d", req.ManualLevel)
	default:
		return "No threshold"
	}
}
