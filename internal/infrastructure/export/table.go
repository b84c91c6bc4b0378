package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTable writes t as aligned plain-text columns for terminals.
// Numeric columns are right-aligned.
func WriteTable(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	line := func(cells []string) error {
		_, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
		return err
	}

	if err := line(t.Header); err != nil {
		return err
	}

	cells := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for j := range cells {
			cells[j] = ""
			if j < len(row) {
				cells[j] = text(row[j])
			}
		}
		if err := line(cells); err != nil {
			return err
		}
	}

	return tw.Flush()
}
