package reports

import (
	"context"
	"time"

	"storebooks/internal/core/id"
)

// Date columns each source is filtered on.
const (
	PurchaseDateKey = "purchased_at"
	SaleDateKey     = "created_at"
	ExpenseDateKey  = "spent_at"
)

// Predicate is the filter handed to a source. It is produced by Scope.Compose
// and must not be modified by sources.
type Predicate struct {
	// BranchID is set when the caller asked for a single branch.
	BranchID *id.ID

	// BranchIDs is the actor's resolved branch set, used when BranchID is nil.
	BranchIDs []id.ID

	// DateKey is the column the date window applies to.
	DateKey string

	// From is the inclusive lower bound, Until the exclusive upper bound.
	// Both are nil when the request has no date constraint.
	From  *time.Time
	Until *time.Time

	// CustomerID is set only by the sales report and only honoured by SaleSource.
	CustomerID *int64
}

// MatchesNothing reports whether the predicate can only select an empty set,
// i.e. no explicit branch and an empty resolved branch set.
func (p Predicate) MatchesNothing() bool {
	return p.BranchID == nil && len(p.BranchIDs) == 0
}

// HasDateWindow reports whether a date constraint applies.
func (p Predicate) HasDateWindow() bool {
	return p.From != nil && p.Until != nil
}

// PurchaseSource returns inventory purchases matching a predicate.
type PurchaseSource interface {
	FetchPurchases(ctx context.Context, p Predicate) ([]PurchaseRecord, error)
}

// SaleSource returns sales, with their payments, matching a predicate.
type SaleSource interface {
	FetchSales(ctx context.Context, p Predicate) ([]SaleRecord, error)
}

// ExpenseSource returns expenses matching a predicate.
type ExpenseSource interface {
	FetchExpenses(ctx context.Context, p Predicate) ([]ExpenseRecord, error)
}

// BranchResolver returns the branches an actor is allowed to see.
type BranchResolver interface {
	ResolveBranchIDs(ctx context.Context, actor Actor) ([]id.ID, error)
}

// Sources groups the three record sources of a summary report.
type Sources struct {
	Purchases PurchaseSource
	Sales     SaleSource
	Expenses  ExpenseSource
}
