package transport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"go-image-quantifier/internal/config"
	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/internal/logger"
	"go-image-quantifier/internal/observer"
	"go-image-quantifier/internal/service"
	"go-image-quantifier/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewHandler(svc service.QuantificationService, cfg *config.Config, progress *observer.ProgressTracker) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/stats", batchStats(progress))
	r.POST("/quantify", quantifyDirectory(svc, cfg))

	return r
}

// batchStats reports the file counters accumulated across every batch
// this process has run.
func batchStats(progress *observer.ProgressTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if progress == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, progress.Snapshot())
	}
}

func quantifyDirectory(svc service.QuantificationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.QuantifyTimeout)
		defer cancel()

		// Log request start
		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing quantification request")

		var req models.QuantificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		result, err := svc.QuantifyDirectory(ctx, req)
		if err != nil {
			statusCode := apperrors.GetStatusCode(err)
			if errors.Is(err, context.DeadlineExceeded) {
				statusCode = http.StatusGatewayTimeout
			}
			logger.WithError(err).WithFields(logrus.Fields{
				"directory": req.Directory,
				"ip":        c.ClientIP(),
			}).Error("Quantification failed")
			respondError(c, statusCode, "quantification failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"directory": req.Directory,
			"processed": result.Outcome.Processed,
			"skipped":   result.Outcome.Skipped,
			"errors":    result.Outcome.Errors,
		}).Info("Quantification request completed")

		c.JSON(http.StatusOK, toResponse(result))
	}
}

// toResponse builds the JSON-safe response: NaN measurement values become
// null cells and the threshold level is rendered the way exported tables
// render it.
func toResponse(result *models.BatchResult) models.QuantificationResponse {
	rows := make([]models.ResultRowJSON, 0, len(result.Rows))
	for _, row := range result.Rows {
		values := make(map[models.MeasurementKey]*float64, len(row.Values))
		for key, v := range row.Values {
			if math.IsNaN(v) {
				values[key] = nil
				continue
			}
			value := v
			values[key] = &value
		}
		threshold := "-"
		if row.ThresholdApplied != models.NoThreshold {
			threshold = fmt.Sprintf("%d", row.ThresholdApplied)
		}
		rows = append(rows, models.ResultRowJSON{
			Image:            row.Image,
			ThresholdApplied: threshold,
			Values:           values,
		})
	}
	return models.QuantificationResponse{
		Rows:       rows,
		Outcome:    result.Outcome,
		Summary:    result.Outcome.Summary(),
		ExportPath: result.ExportPath,
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
