package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// csvExporter writes the results table as delimited text. NaN cells are
// written literally as "NaN" so a round-trip parse reconstructs the
// sentinel.
type csvExporter struct {
	decimalPlaces int
}

func (e *csvExporter) Export(table *Table, destination string) error {
	return atomicWrite(destination, func(w io.Writer) error {
		cw := csv.NewWriter(w)

		if err := cw.Write(table.header()); err != nil {
			return err
		}

		record := make([]string, 0, len(table.Keys)+2)
		for _, row := range table.Rows {
			record = record[:0]
			record = append(record, row.Image, thresholdCell(row.ThresholdApplied))
			for _, key := range table.Keys {
				record = append(record, e.formatValue(row.Values[key]))
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	})
}

func (e *csvExporter) formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(roundTo(v, e.decimalPlaces), 'f', e.decimalPlaces, 64)
}
