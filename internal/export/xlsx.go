package export

import (
	"io"
	"math"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"

	"go-image-quantifier/pkg/models"
)

const (
	measurementsSheet = "Measurements"
	summarySheet      = "Summary"
)

// xlsxExporter writes a spreadsheet workbook: the results table on a
// Measurements sheet plus a Summary sheet with run parameters and
// across-image statistics. NaN cells are left empty.
type xlsxExporter struct {
	decimalPlaces int
}

func (e *xlsxExporter) Export(table *Table, destination string) error {
	return atomicWrite(destination, func(w io.Writer) error {
		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetSheetName("Sheet1", measurementsSheet); err != nil {
			return err
		}
		if err := e.writeMeasurements(f, table); err != nil {
			return err
		}
		if err := e.writeSummary(f, table); err != nil {
			return err
		}

		return f.Write(w)
	})
}

func (e *xlsxExporter) writeMeasurements(f *excelize.File, table *Table) error {
	if err := writeRow(f, measurementsSheet, 1, toCells(table.header())); err != nil {
		return err
	}
	for i, row := range table.Rows {
		cells := []interface{}{row.Image, thresholdCell(row.ThresholdApplied)}
		for _, key := range table.Keys {
			cells = append(cells, e.numericCell(row.Values[key]))
		}
		if err := writeRow(f, measurementsSheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

// writeSummary mirrors the report layout of the historical workflow: run
// parameters, per-measurement aggregates across images, then the image
// and threshold listing.
func (e *xlsxExporter) writeSummary(f *excelize.File, table *Table) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	line := 1
	writeNext := func(cells []interface{}) error {
		if len(cells) == 0 {
			line++
			return nil
		}
		err := writeRow(f, summarySheet, line, cells)
		line++
		return err
	}

	parameterRows := [][]interface{}{
		{"Parameter", "Value"},
		{"Images folder", table.Meta.InputDir},
		{"Threshold method", table.Meta.ThresholdDescription},
		{"Images processed", table.Meta.Processed},
	}
	for _, row := range parameterRows {
		if err := writeNext(row); err != nil {
			return err
		}
	}

	if err := writeNext(nil); err != nil {
		return err
	}
	if err := writeNext([]interface{}{"Measurement", "Mean", "StdDev", "Count"}); err != nil {
		return err
	}
	for i, key := range table.Keys {
		mean, stdev, count := e.aggregate(table.Rows, key)
		cells := []interface{}{table.Columns[i], e.numericCell(mean), e.numericCell(stdev), count}
		if err := writeNext(cells); err != nil {
			return err
		}
	}

	if err := writeNext(nil); err != nil {
		return err
	}
	if err := writeNext([]interface{}{"Image", "Threshold Applied"}); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writeNext([]interface{}{row.Image, thresholdCell(row.ThresholdApplied)}); err != nil {
			return err
		}
	}
	return nil
}

// aggregate computes the across-image mean and sample standard deviation
// of one measurement, ignoring "no data" cells.
func (e *xlsxExporter) aggregate(rows []models.ResultRow, key models.MeasurementKey) (mean, stdev float64, count int) {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Values[key]; ok && !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	count = len(values)
	if count == 0 {
		return math.NaN(), math.NaN(), 0
	}
	mean = stat.Mean(values, nil)
	if count > 1 {
		stdev = stat.StdDev(values, nil)
	} else {
		stdev = math.NaN()
	}
	return mean, stdev, count
}

// numericCell rounds at serialization time; NaN becomes nil so the cell
// stays empty.
func (e *xlsxExporter) numericCell(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return roundTo(v, e.decimalPlaces)
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, value := range cells {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
