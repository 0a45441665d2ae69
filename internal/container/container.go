package container

import (
	"fmt"
	"net/http"

	"go-image-quantifier/internal/config"
	"go-image-quantifier/internal/logger"
	"go-image-quantifier/internal/observer"
	"go-image-quantifier/internal/quantifier"
	"go-image-quantifier/internal/repository"
	"go-image-quantifier/internal/service"
	"go-image-quantifier/internal/storage"
	"go-image-quantifier/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	imageLoader     storage.ImageLoader
	imageRepository repository.ImageRepository
	events          observer.Subject
	progress        *observer.ProgressTracker
	batchRunner     quantifier.BatchRunner
	reportUploader  storage.ReportUploader
	quantService    service.QuantificationService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		loaded, err := config.LoadFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// Build dependency graph
	imageLoader := storage.NewFileImageLoader()
	imageRepository := repository.NewFileImageRepository(imageLoader)
	events := observer.NewEventPublisher()
	progress := observer.NewProgressTracker()
	events.Subscribe(progress)
	batchRunner := quantifier.NewBatchRunnerWithEvents(imageRepository, quantifier.NewThresholder(), quantifier.NewMeasurer(), events)

	var reportUploader storage.ReportUploader
	if cfg.UploadConfigured() {
		uploader, err := storage.NewAzureUploader(cfg.AzureAccount, cfg.AzureKey, cfg.AzureContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to build report uploader: %w", err)
		}
		reportUploader = uploader
		logger.WithField("container", cfg.AzureContainer).Info("Report upload enabled")
	}

	quantService := service.NewQuantificationService(batchRunner, reportUploader, cfg)
	handler := transport.NewHandler(quantService, cfg, progress)

	return &Container{
		config:          cfg,
		imageLoader:     imageLoader,
		imageRepository: imageRepository,
		events:          events,
		progress:        progress,
		batchRunner:     batchRunner,
		reportUploader:  reportUploader,
		quantService:    quantService,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the quantification service
func (c *Container) Service() service.QuantificationService {
	return c.quantService
}

// Events returns the batch event publisher, so surfaces can attach
// their own observers before running a batch.
func (c *Container) Events() observer.Subject {
	return c.events
}

// Progress returns the cross-run progress tracker
func (c *Container) Progress() *observer.ProgressTracker {
	return c.progress
}
