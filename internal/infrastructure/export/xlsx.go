package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"storebooks/internal/core/types"
)

const sheetName = "Sheet1"

// WriteXLSX writes t as a single-sheet workbook. Money cells are numeric so
// the sheet can compute with them.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("xlsx header style: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, axis, &cells); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if len(t.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, "A", last, 14); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func cellValue(v any) any {
	switch c := v.(type) {
	case types.Money:
		return c.InexactFloat64()
	case types.Date:
		return c.String()
	default:
		return v
	}
}
