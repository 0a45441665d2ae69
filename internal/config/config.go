package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults mirror the historical batch-quantification workflow: threshold
// with Otsu, report three decimal places, and export next to the input.
const (
	DefaultThresholdMethod = "otsu"
	DefaultDecimalPlaces   = 3
	DefaultExportFile      = "quantification_measurements.xlsx"
)

// Config aggregates everything the quantification core and its surfaces
// need: the batch job itself, server settings for the API surface, and
// optional Azure upload credentials for exported reports.
type Config struct {
	// HTTP surface
	Host               string
	Port               string
	RequestTimeout     time.Duration
	QuantifyTimeout    time.Duration
	MaxRequestBodySize int64

	// Batch job defaults
	InputDir        string
	ExportPath      string
	ThresholdMethod string
	ManualLevel     int
	Measurements    []string
	DecimalPlaces   int

	// Optional report upload
	AzureAccount   string
	AzureKey       string
	AzureContainer string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// UploadConfigured reports whether the Azure report-upload settings are
// complete enough to construct an uploader.
func (c *Config) UploadConfigured() bool {
	return c.AzureAccount != "" && c.AzureKey != "" && c.AzureContainer != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		QuantifyTimeout:    parseDurationOrDefault("QUANTIFY_TIMEOUT", 5*time.Minute),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 1*1024*1024), // 1MB of JSON is plenty

		InputDir:        os.Getenv("QUANT_INPUT_DIR"),
		ExportPath:      os.Getenv("QUANT_EXPORT_PATH"),
		ThresholdMethod: getEnvOrDefault("QUANT_THRESHOLD_METHOD", DefaultThresholdMethod),
		ManualLevel:     int(parseIntOrDefault("QUANT_MANUAL_LEVEL", 0)),
		Measurements:    splitList(os.Getenv("QUANT_MEASUREMENTS")),
		DecimalPlaces:   int(parseIntOrDefault("QUANT_DECIMAL_PLACES", DefaultDecimalPlaces)),

		AzureAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer: os.Getenv("AZURE_REPORT_CONTAINER"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings once, before the core executes. The core
// itself never prompts or re-validates server-level settings.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.QuantifyTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, quantify=%s)",
			c.RequestTimeout, c.QuantifyTimeout)
	}
	switch c.ThresholdMethod {
	case "none", "manual", "otsu":
	default:
		return fmt.Errorf("invalid QUANT_THRESHOLD_METHOD: %q (want none, manual or otsu)", c.ThresholdMethod)
	}
	if c.ThresholdMethod == "manual" && (c.ManualLevel < 0 || c.ManualLevel > 255) {
		return fmt.Errorf("QUANT_MANUAL_LEVEL must be in [0,255] (got %d)", c.ManualLevel)
	}
	if c.DecimalPlaces < 0 {
		return fmt.Errorf("QUANT_DECIMAL_PLACES must be >= 0 (got %d)", c.DecimalPlaces)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
