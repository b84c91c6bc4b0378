// Package report_repo provides PostgreSQL implementations of the report sources.
package report_repo

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"storebooks/internal/domain/reports"
)

// dateColumns whitelists the columns a predicate may filter on,
// since DateKey ends up in SQL text.
var dateColumns = map[string]bool{
	reports.PurchaseDateKey: true,
	reports.SaleDateKey:     true,
	reports.ExpenseDateKey:  true,
}

// applyPredicate adds the branch and date clauses of p to q. Columns are
// qualified with table when the query joins other tables.
// Branch IDs are bound as text; a UUID array would be expanded by squirrel
// into one placeholder per byte.
func applyPredicate(q squirrel.SelectBuilder, table string, p reports.Predicate) (squirrel.SelectBuilder, error) {
	if !dateColumns[p.DateKey] {
		return q, fmt.Errorf("unsupported date column %q", p.DateKey)
	}

	branchCol, dateCol := column(table, "branch_id"), column(table, p.DateKey)

	if p.BranchID != nil {
		q = q.Where(squirrel.Eq{branchCol: p.BranchID.String()})
	} else {
		ids := make([]string, len(p.BranchIDs))
		for i, b := range p.BranchIDs {
			ids[i] = b.String()
		}
		q = q.Where(squirrel.Eq{branchCol: ids})
	}

	if p.HasDateWindow() {
		q = q.Where(squirrel.GtOrEq{dateCol: *p.From}).
			Where(squirrel.Lt{dateCol: *p.Until})
	}

	return q, nil
}

func column(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}
