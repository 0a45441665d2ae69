package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/internal/quantifier"
	"go-image-quantifier/pkg/models"
)

// Format selects the serialization backend for the results table.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatForPath infers the export format from the destination extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("cannot infer export format from %q (want .csv or .xlsx)", path)
	}
}

// RunMetadata carries run-level context into the exported report.
type RunMetadata struct {
	InputDir             string
	ThresholdDescription string
	Processed            int
}

// Table is the fully materialized results table. Building it in memory
// before any I/O is what makes the export atomic from the caller's
// perspective: a partial table is never observable on disk.
type Table struct {
	Columns []string
	Keys    []models.MeasurementKey
	Rows    []models.ResultRow
	Meta    RunMetadata
}

// BuildTable materializes the table for a finished run.
func BuildTable(rows []models.ResultRow, spec quantifier.MeasurementSpec, meta RunMetadata) *Table {
	return &Table{
		Columns: spec.Columns(),
		Keys:    spec.Keys(),
		Rows:    rows,
		Meta:    meta,
	}
}

// header returns the full column header: Image and Threshold Applied
// precede the measurement columns in spec order.
func (t *Table) header() []string {
	header := make([]string, 0, len(t.Columns)+2)
	header = append(header, "Image", "Threshold Applied")
	header = append(header, t.Columns...)
	return header
}

// Exporter serializes a results table to a durable destination.
type Exporter interface {
	Export(table *Table, destination string) error
}

// NewExporter creates an exporter for the given format. decimalPlaces
// controls rounding at serialization time only; in-memory values keep
// full precision.
func NewExporter(format Format, decimalPlaces int) (Exporter, error) {
	switch format {
	case FormatCSV:
		return &csvExporter{decimalPlaces: decimalPlaces}, nil
	case FormatXLSX:
		return &xlsxExporter{decimalPlaces: decimalPlaces}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// thresholdCell renders the Threshold Applied column: the literal level,
// or "-" when no threshold was applied.
func thresholdCell(level int) string {
	if level == models.NoThreshold {
		return "-"
	}
	return strconv.Itoa(level)
}

// roundTo applies the configured decimal precision. NaN passes through
// untouched so backends can render their own "no data" cell.
func roundTo(v float64, decimalPlaces int) float64 {
	if math.IsNaN(v) {
		return v
	}
	scale := math.Pow10(decimalPlaces)
	return math.Round(v*scale) / scale
}

// atomicWrite writes the destination file atomically: the content goes to
// a temporary file in the destination directory first and is renamed into
// place only after a successful write. The destination directory is
// created if absent.
func atomicWrite(destination string, write func(io.Writer) error) error {
	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("failed to create export directory %q", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".quantify-*")
	if err != nil {
		return apperrors.NewExportError("failed to create temporary export file", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewExportError(fmt.Sprintf("failed to write export file %q", destination), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewExportError(fmt.Sprintf("failed to flush export file %q", destination), err)
	}
	if err := os.Rename(tmpName, destination); err != nil {
		os.Remove(tmpName)
		return apperrors.NewExportError(fmt.Sprintf("failed to move export file into place at %q", destination), err)
	}
	return nil
}
