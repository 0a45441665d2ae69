package config

import (
	"reflect"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               "8080",
		RequestTimeout:     30 * time.Second,
		QuantifyTimeout:    5 * time.Minute,
		MaxRequestBodySize: 1024,
		ThresholdMethod:    "otsu",
		DecimalPlaces:      3,
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "QUANT_THRESHOLD_METHOD", "QUANT_DECIMAL_PLACES", "QUANTIFY_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.ThresholdMethod != DefaultThresholdMethod {
		t.Errorf("Expected default threshold method %q, got %q", DefaultThresholdMethod, cfg.ThresholdMethod)
	}
	if cfg.DecimalPlaces != DefaultDecimalPlaces {
		t.Errorf("Expected %d decimal places, got %d", DefaultDecimalPlaces, cfg.DecimalPlaces)
	}
	if cfg.QuantifyTimeout != 5*time.Minute {
		t.Errorf("Expected 5m quantify timeout, got %s", cfg.QuantifyTimeout)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("QUANT_INPUT_DIR", "/data/images")
	t.Setenv("QUANT_THRESHOLD_METHOD", "manual")
	t.Setenv("QUANT_MANUAL_LEVEL", "42")
	t.Setenv("QUANT_MEASUREMENTS", "mean_intensity, foreground_area")
	t.Setenv("QUANT_DECIMAL_PLACES", "5")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Port)
	}
	if cfg.InputDir != "/data/images" {
		t.Errorf("Expected input dir override, got %s", cfg.InputDir)
	}
	if cfg.ThresholdMethod != "manual" || cfg.ManualLevel != 42 {
		t.Errorf("Expected manual threshold at 42, got %s/%d", cfg.ThresholdMethod, cfg.ManualLevel)
	}
	expected := []string{"mean_intensity", "foreground_area"}
	if !reflect.DeepEqual(cfg.Measurements, expected) {
		t.Errorf("Expected measurements %v, got %v", expected, cfg.Measurements)
	}
	if cfg.DecimalPlaces != 5 {
		t.Errorf("Expected 5 decimal places, got %d", cfg.DecimalPlaces)
	}
}

func TestLoadFromEnvInvalidMethod(t *testing.T) {
	t.Setenv("QUANT_THRESHOLD_METHOD", "adaptive")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for unknown threshold method")
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	for _, port := range []string{"", "abc", "0", "70000"} {
		cfg := validConfig()
		cfg.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected error for port %q", port)
		}
	}
}

func TestValidateManualLevelRange(t *testing.T) {
	cfg := validConfig()
	cfg.ThresholdMethod = "manual"

	for _, level := range []int{0, 128, 255} {
		cfg.ManualLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected level %d to validate, got %v", level, err)
		}
	}
	for _, level := range []int{-1, 256} {
		cfg.ManualLevel = level
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected error for manual level %d", level)
		}
	}
}

func TestValidateManualLevelIgnoredForOtsu(t *testing.T) {
	cfg := validConfig()
	cfg.ManualLevel = 999
	if err := cfg.Validate(); err != nil {
		t.Errorf("Manual level must only be checked for the manual method, got %v", err)
	}
}

func TestValidateRejectsNegativeDecimals(t *testing.T) {
	cfg := validConfig()
	cfg.DecimalPlaces = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative decimal places")
	}
}

func TestUploadConfigured(t *testing.T) {
	cfg := validConfig()
	if cfg.UploadConfigured() {
		t.Error("Expected upload unconfigured without credentials")
	}
	cfg.AzureAccount = "acct"
	cfg.AzureKey = "key"
	if cfg.UploadConfigured() {
		t.Error("Expected upload unconfigured without a container")
	}
	cfg.AzureContainer = "reports"
	if !cfg.UploadConfigured() {
		t.Error("Expected upload configured with all three settings")
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: " 127.0.0.1 ", Port: " 9000 "}
	if got := cfg.ServerAddress(); got != "127.0.0.1:9000" {
		t.Errorf("Expected 127.0.0.1:9000, got %s", got)
	}
}
