// Package export renders report tables as CSV or XLSX downloads.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"storebooks/internal/core/types"
	"storebooks/internal/domain/reports"
)

// Format is a download file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns base with the format's extension.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Table is a header plus rows of cells. Cells hold types.Money, types.Date,
// strings or integers.
type Table struct {
	Header []string
	Rows   [][]any
}

// SummaryTable lays out summary rows in report column order.
func SummaryTable(rows []reports.SummaryRow) Table {
	t := Table{
		Header: []string{"Date", "Inventory", "Sales", "Discount", "Collectible", "Expenses", "Profit"},
		Rows:   make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Date, r.Inventory, r.Sales, r.Discount, r.Collectible, r.Expenses, r.Profit})
	}
	return t
}

// SalesTable lays out per-sale lines. Walk-in sales leave Customer empty.
func SalesTable(lines []reports.SaleLine) Table {
	t := Table{
		Header: []string{"ID", "Date", "Gross", "Discount", "Net", "Paid", "Balance", "Status", "Branch", "Customer"},
		Rows:   make([][]any, 0, len(lines)),
	}
	for _, l := range lines {
		t.Rows = append(t.Rows, []any{
			l.ID, l.Date, l.GrossAmount, l.Discount, l.NetAmount, l.Paid, l.Balance, string(l.Status),
			l.BranchName, l.CustomerName,
		})
	}
	return t
}

// Write renders t to w in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// text renders a cell the way it appears in CSV and terminal output.
func text(v any) string {
	switch c := v.(type) {
	case types.Money:
		return c.String()
	case types.Date:
		return c.String()
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case int:
		return strconv.Itoa(c)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}
