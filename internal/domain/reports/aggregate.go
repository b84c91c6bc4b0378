package reports

import (
	"slices"

	"storebooks/internal/core/types"
)

// Aggregator sums events per calendar day.
type Aggregator struct {
	money types.MoneyPolicy
}

// NewAggregator creates an Aggregator rounding totals with money.
func NewAggregator(money types.MoneyPolicy) Aggregator {
	return Aggregator{money: money}
}

type dayTotals struct {
	byCategory map[Category]types.Money
}

// Aggregate emits one row per distinct event date, earliest first.
// Categories without events on a day are zero. Totals are accumulated at full
// precision and rounded once; profit is derived from the rounded totals.
func (a Aggregator) Aggregate(events []Event) []SummaryRow {
	days := make(map[types.Date]*dayTotals)

	for _, e := range events {
		t, ok := days[e.Date]
		if !ok {
			t = &dayTotals{byCategory: make(map[Category]types.Money, 5)}
			days[e.Date] = t
		}
		if sum, ok := t.byCategory[e.Category]; ok {
			t.byCategory[e.Category] = sum.Add(e.Amount)
		} else {
			t.byCategory[e.Category] = e.Amount
		}
	}

	rows := make([]SummaryRow, 0, len(days))
	for day, t := range days {
		rows = append(rows, a.row(day, t))
	}

	slices.SortFunc(rows, func(x, y SummaryRow) int {
		return x.Date.Compare(y.Date)
	})

	return rows
}

func (a Aggregator) row(day types.Date, t *dayTotals) SummaryRow {
	total := func(c Category) types.Money {
		sum, ok := t.byCategory[c]
		if !ok {
			sum = types.Zero()
		}
		return a.money.Round(sum)
	}

	row := SummaryRow{
		Date:        day,
		Inventory:   total(CategoryInventory),
		Sales:       total(CategorySales),
		Discount:    total(CategoryDiscount),
		Collectible: total(CategoryCollectible),
		Expenses:    total(CategoryExpenses),
	}
	row.Profit = a.money.Round(row.Sales.Sub(row.Inventory).Sub(row.Expenses))

	return row
}
