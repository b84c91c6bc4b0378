package reports

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortOrder is the direction of a sort key.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortKey is one column/direction pair as sent by a table UI.
type SortKey struct {
	Key   string    `json:"key"`
	Order SortOrder `json:"order"`
}

// SortDirective is the caller's list of sort keys.
type SortDirective []SortKey

// Ascending reports whether rows go earliest-first. That is the case only for
// exactly one key ordered "asc"; no keys, several keys or any other order mean
// latest-first.
func (d SortDirective) Ascending() bool {
	return len(d) == 1 && d[0].Order == SortAsc
}

// ParseSortDirective parses "key:order" tokens such as "date:asc".
// A token without an order is taken as descending.
func ParseSortDirective(tokens []string) (SortDirective, error) {
	var d SortDirective
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key, order, _ := strings.Cut(tok, ":")
		switch o := SortOrder(strings.ToLower(strings.TrimSpace(order))); o {
		case SortAsc, SortDesc:
			d = append(d, SortKey{Key: strings.TrimSpace(key), Order: o})
		case "":
			d = append(d, SortKey{Key: strings.TrimSpace(key), Order: SortDesc})
		default:
			return nil, fmt.Errorf("invalid sort order %q in %q", order, tok)
		}
	}
	return d, nil
}

// SortRows returns rows ordered by date according to d. The input is not modified.
func SortRows(rows []SummaryRow, d SortDirective) []SummaryRow {
	out := slices.Clone(rows)
	asc := d.Ascending()
	slices.SortStableFunc(out, func(x, y SummaryRow) int {
		if asc {
			return x.Date.Compare(y.Date)
		}
		return y.Date.Compare(x.Date)
	})
	return out
}

// SortSaleLines orders sale lines by timestamp, then ID, according to d.
func SortSaleLines(lines []SaleLine, d SortDirective) []SaleLine {
	out := slices.Clone(lines)
	asc := d.Ascending()
	slices.SortStableFunc(out, func(x, y SaleLine) int {
		c := x.CreatedAt.Compare(y.CreatedAt)
		if c == 0 {
			c = cmp.Compare(x.ID, y.ID)
		}
		if asc {
			return c
		}
		return -c
	})
	return out
}
