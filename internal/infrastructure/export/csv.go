package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes t as comma-separated values with a header line.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(t.Header))
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = text(row[j])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
