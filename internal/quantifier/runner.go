package quantifier

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/internal/logger"
	"go-image-quantifier/internal/observer"
	"go-image-quantifier/internal/repository"
	"go-image-quantifier/pkg/models"
)

// batchRunner walks the per-file state machine
// Discovered -> Opened -> (Thresholded) -> Measured -> Recorded,
// diverting to Skipped or Errored, sequentially and in enumeration order.
// Processing is file-isolated: one bad image never aborts the batch.
type batchRunner struct {
	repo        repository.ImageRepository
	thresholder Thresholder
	measurer    Measurer
	events      observer.Subject // nil means no progress events
}

// NewBatchRunner creates a runner over the given collaborators.
func NewBatchRunner(repo repository.ImageRepository, thresholder Thresholder, measurer Measurer) BatchRunner {
	return NewBatchRunnerWithEvents(repo, thresholder, measurer, nil)
}

// NewBatchRunnerWithEvents creates a runner that publishes per-file
// progress events to the given subject.
func NewBatchRunnerWithEvents(repo repository.ImageRepository, thresholder Thresholder, measurer Measurer, events observer.Subject) BatchRunner {
	return &batchRunner{
		repo:        repo,
		thresholder: thresholder,
		measurer:    measurer,
		events:      events,
	}
}

func (r *batchRunner) notify(ctx context.Context, event observer.BatchEvent) {
	if r.events == nil {
		return
	}
	event.Timestamp = time.Now()
	r.events.Notify(ctx, event)
}

// Run quantifies every supported image in directory. It fails fast on
// configuration and listing errors, before any file is touched; per-file
// failures are logged, counted, and recovered.
func (r *batchRunner) Run(ctx context.Context, directory string, cfg ThresholdConfig, spec MeasurementSpec) ([]models.ResultRow, models.RunOutcome, error) {
	var outcome models.RunOutcome

	if err := cfg.Validate(); err != nil {
		return nil, outcome, err
	}

	descriptors, skippedEntries, err := r.repo.ListImages(directory)
	if err != nil {
		return nil, outcome, err
	}

	for _, skip := range skippedEntries {
		outcome.Skipped++
		logger.WithFields(logrus.Fields{
			"file":   skip.Filename,
			"reason": skip.Reason,
		}).Warn("Skipping file")
		r.notify(ctx, observer.BatchEvent{Type: observer.FileSkipped, File: skip.Filename, Reason: skip.Reason})
	}

	rows := make([]models.ResultRow, 0, len(descriptors))
	for _, desc := range descriptors {
		row, err := r.processFile(ctx, desc, cfg, spec)
		if err != nil {
			outcome.Errors++
			logger.WithError(err).WithField("file", desc.Filename).Error("File failed, continuing batch")
			r.notify(ctx, observer.BatchEvent{Type: observer.FileFailed, File: desc.Filename, Reason: err.Error()})
			continue
		}
		rows = append(rows, row)
		outcome.Processed++
		r.notify(ctx, observer.BatchEvent{Type: observer.FileProcessed, File: desc.Filename, Threshold: row.ThresholdApplied})
	}
	r.notify(ctx, observer.BatchEvent{Type: observer.BatchCompleted})

	if outcome.Processed == 0 {
		// Reported, not fatal: the caller decides whether an empty
		// report is acceptable.
		logger.WithFields(logrus.Fields{
			"directory": directory,
			"skipped":   outcome.Skipped,
			"errors":    outcome.Errors,
		}).Warn("No images were successfully processed")
	}

	return rows, outcome, nil
}

// processFile takes one descriptor through decode, threshold and
// measurement. The intensity array and mask are scoped to this call and
// become reclaimable as soon as it returns.
func (r *batchRunner) processFile(ctx context.Context, desc repository.ImageDescriptor, cfg ThresholdConfig, spec MeasurementSpec) (models.ResultRow, error) {
	img, err := r.repo.LoadImage(ctx, desc.Path)
	if err != nil {
		return models.ResultRow{}, err
	}

	arr := IntensityFromImage(img)

	mask, level, err := r.thresholder.Apply(arr, cfg)
	if err != nil {
		return models.ResultRow{}, err
	}

	values, err := r.measurer.Measure(arr, mask, spec)
	if err != nil {
		return models.ResultRow{}, apperrors.NewMeasurementError(desc.Filename, err)
	}

	logger.WithFields(logrus.Fields{
		"file":      desc.Filename,
		"threshold": level,
		"pixels":    arr.Len(),
	}).Debug("Image measured")

	return models.ResultRow{
		Image:            desc.Filename,
		ThresholdApplied: level,
		Values:           values,
	}, nil
}
