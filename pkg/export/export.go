// Package export renders resolved relationship tables into downloadable
// formats. Row 0 is expected to be the column-header row, as produced by
// the report package.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Relationships"

// CSV renders the table as UTF-8 CSV.
func CSV(rows [][]string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("export: no rows")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Excel renders the table as a single-sheet xlsx workbook. An empty
// sheet name falls back to a default.
func Excel(rows [][]string, sheet string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("export: no rows")
	}
	if sheet == "" {
		sheet = defaultSheet
	}

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := wb.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
