// Package reports builds the per-day financial summary of one or more branches.
//
// A report is computed in five steps: the request scope is validated and the
// actor's branches are resolved (Composer), the three record sources are queried
// concurrently (Sources), each record becomes one or more dated events
// (Normalizer), events are summed per calendar day (Aggregator) and the rows are
// ordered (SortRows). Service wires the steps together.
package reports

import (
	"time"

	"storebooks/internal/core/id"
	"storebooks/internal/core/types"
)

// Actor is the user on whose behalf a report is computed.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// ScopeRequest is the caller's branch and date filter.
type ScopeRequest struct {
	// BranchID limits the report to one branch. Nil means every branch the actor can see.
	BranchID *id.ID `json:"branchId,omitempty"`

	// DateRange holds zero, one (single day) or two (inclusive range) dates.
	DateRange []types.Date `json:"dateRange,omitempty"`
}

// --- Source records ---

// PurchaseRecord is one inventory purchase (stock-in).
type PurchaseRecord struct {
	Amount types.Money `db:"total_cost"`
	Date   time.Time   `db:"purchased_at"`
}

// PaymentRecord is one customer payment made against a sale.
type PaymentRecord struct {
	Amount types.Money `json:"payment"`
}

// SaleRecord is one sale with its recorded customer payments.
// Walk-in sales have no customer.
type SaleRecord struct {
	ID           int64           `db:"id"`
	BranchID     id.ID           `db:"branch_id"`
	BranchName   string          `db:"branch_name"`
	CustomerID   *int64          `db:"customer_id"`
	CustomerName string          `db:"customer_name"`
	GrossAmount  types.Money     `db:"exact_price"`
	NetAmount    types.Money     `db:"overall_price"`
	Date         time.Time       `db:"created_at"`
	Payments     []PaymentRecord `db:"customer_payments"`
}

// ExpenseRecord is one branch expense.
type ExpenseRecord struct {
	Amount types.Money `db:"amount"`
	Date   time.Time   `db:"spent_at"`
}

// --- Events ---

// Category classifies an event amount.
type Category string

const (
	CategoryInventory   Category = "inventory"
	CategorySales       Category = "sales"
	CategoryDiscount    Category = "discount"
	CategoryCollectible Category = "collectible"
	CategoryExpenses    Category = "expenses"
)

// Event is a single dated amount derived from a source record.
type Event struct {
	Date     types.Date
	Category Category
	Amount   types.Money
}

// --- Output ---

// SummaryRow holds the totals of one calendar day.
// Profit is always Sales - Inventory - Expenses.
type SummaryRow struct {
	Date        types.Date  `json:"date"`
	Inventory   types.Money `json:"inventory"`
	Sales       types.Money `json:"sales"`
	Discount    types.Money `json:"discount"`
	Collectible types.Money `json:"collectible"`
	Expenses    types.Money `json:"expenses"`
	Profit      types.Money `json:"profit"`
}

// SummaryReport is a completed report together with the request that produced it.
type SummaryReport struct {
	Rows        []SummaryRow
	Scope       ScopeRequest
	Sort        SortDirective
	GeneratedAt time.Time
}

// PaymentStatus describes how far a sale has been paid.
type PaymentStatus string

const (
	PaymentFullyPaid     PaymentStatus = "fully_paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
)

// SaleLine is one row of the sales report.
type SaleLine struct {
	ID           int64         `json:"id"`
	BranchID     id.ID         `json:"branchId"`
	BranchName   string        `json:"branchName"`
	CustomerID   *int64        `json:"customerId,omitempty"`
	CustomerName string        `json:"customerName,omitempty"`
	Date         types.Date    `json:"date"`
	CreatedAt    time.Time     `json:"createdAt"`
	GrossAmount  types.Money   `json:"grossAmount"`
	Discount     types.Money   `json:"discount"`
	NetAmount    types.Money   `json:"netAmount"`
	Paid         types.Money   `json:"paid"`
	Balance      types.Money   `json:"balance"`
	Status       PaymentStatus `json:"status"`
}

// SalesFilter narrows the sales report beyond its branch and date scope.
type SalesFilter struct {
	// CustomerID keeps only the sales of one customer. Nil keeps every sale.
	CustomerID *int64
}
