package reports

import (
	"time"

	"storebooks/internal/core/types"
)

// Normalizer maps source records to dated events.
// Each derived amount is rounded exactly once, from unrounded inputs.
type Normalizer struct {
	money types.MoneyPolicy
	loc   *time.Location
}

// NewNormalizer creates a Normalizer that buckets timestamps into days in loc.
func NewNormalizer(money types.MoneyPolicy, loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return Normalizer{money: money, loc: loc}
}

// Purchases yields one inventory event per purchase.
func (n Normalizer) Purchases(records []PurchaseRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		events = append(events, Event{
			Date:     types.DateOf(r.Date, n.loc),
			Category: CategoryInventory,
			Amount:   n.money.Round(r.Amount),
		})
	}
	return events
}

// Expenses yields one expenses event per expense.
func (n Normalizer) Expenses(records []ExpenseRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		events = append(events, Event{
			Date:     types.DateOf(r.Date, n.loc),
			Category: CategoryExpenses,
			Amount:   n.money.Round(r.Amount),
		})
	}
	return events
}

// Sales yields a sales, a discount and a collectible event per sale.
func (n Normalizer) Sales(records []SaleRecord) []Event {
	events := make([]Event, 0, len(records)*3)
	for _, r := range records {
		day := types.DateOf(r.Date, n.loc)
		fig := n.SaleFigures(r)
		events = append(events,
			Event{Date: day, Category: CategorySales, Amount: fig.Net},
			Event{Date: day, Category: CategoryDiscount, Amount: fig.Discount},
			Event{Date: day, Category: CategoryCollectible, Amount: fig.Balance},
		)
	}
	return events
}

// SaleFigures are the rounded amounts derived from one sale.
type SaleFigures struct {
	Net      types.Money
	Discount types.Money
	Paid     types.Money
	Balance  types.Money
}

// SaleFigures computes discount (gross - net) and balance (net - payments).
// A sale without recorded payments has a zero balance.
func (n Normalizer) SaleFigures(r SaleRecord) SaleFigures {
	fig := SaleFigures{
		Net:      n.money.Round(r.NetAmount),
		Discount: n.money.Sub(r.GrossAmount, r.NetAmount),
		Paid:     n.money.Round(types.Zero()),
		Balance:  n.money.Round(types.Zero()),
	}

	if len(r.Payments) > 0 {
		amounts := make([]types.Money, len(r.Payments))
		for i, p := range r.Payments {
			amounts[i] = p.Amount
		}
		fig.Paid = n.money.Sum(amounts...)
		fig.Balance = n.money.Sub(r.NetAmount, types.SumPrecise(amounts...))
	}

	return fig
}
