package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go-image-quantifier/internal/config"
	"go-image-quantifier/internal/container"
	"go-image-quantifier/internal/logger"
	"go-image-quantifier/internal/observer"
	"go-image-quantifier/pkg/models"
)

// Exit codes: 0 on success, 1 on a fatal error, 2 when the run completed
// but zero images were successfully processed. The last case is distinct
// so callers can tell "nothing worked" from "some files failed".
const (
	exitOK            = 0
	exitFatal         = 1
	exitNothingToShow = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return exitFatal
	}

	input := flag.String("input", cfg.InputDir, "directory containing the images to quantify")
	output := flag.String("output", cfg.ExportPath, "destination for the results table (.csv or .xlsx)")
	method := flag.String("threshold", cfg.ThresholdMethod, "threshold method: none, manual or otsu")
	level := flag.Int("level", cfg.ManualLevel, "manual threshold level in [0,255] (used with -threshold manual)")
	measurements := flag.String("measurements", strings.Join(cfg.Measurements, ","), "comma-separated measurement keys (default: all)")
	decimals := flag.Int("decimals", cfg.DecimalPlaces, "decimal places in the exported table")
	upload := flag.Bool("upload", false, "upload the exported report to the configured Azure container")
	progress := flag.Bool("progress", false, "print a line per file while the batch runs")
	flag.Parse()

	logger.UseTextFormatter()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "an input directory is required (-input or QUANT_INPUT_DIR)")
		flag.Usage()
		return exitFatal
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		return exitFatal
	}
	if *progress {
		c.Events().Subscribe(observer.NewProgressPrinter(os.Stdout))
	}

	req := models.QuantificationRequest{
		Directory:       *input,
		ThresholdMethod: *method,
		ManualLevel:     *level,
		Measurements:    splitKeys(*measurements),
		ExportPath:      *output,
		DecimalPlaces:   *decimals,
		UploadReport:    *upload,
	}

	result, err := c.Service().QuantifyDirectory(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quantification failed: %v\n", err)
		if result != nil {
			// The table was computed but could not be persisted.
			fmt.Fprintln(os.Stderr, result.Outcome.Summary())
		}
		return exitFatal
	}

	fmt.Println(result.Outcome.Summary())
	if result.ExportPath != "" {
		fmt.Printf("Results saved to %s\n", result.ExportPath)
	}

	if result.Outcome.Processed == 0 {
		return exitNothingToShow
	}
	return exitOK
}

func splitKeys(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
