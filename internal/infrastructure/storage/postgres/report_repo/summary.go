package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storebooks/internal/domain/reports"
	"storebooks/internal/infrastructure/storage/postgres"
)

// paymentsColumn embeds a sale's customer payments as a JSON array.
const paymentsColumn = `COALESCE((
		SELECT json_agg(json_build_object('payment', cp.payment) ORDER BY cp.id)
		FROM customer_payments cp
		WHERE cp.sales_id = sales.id
	), '[]'::json) AS customer_payments`

// SummaryRepo implements the three summary report sources.
// Each fetch runs in its own read-only transaction, so the sources
// can be queried concurrently.
type SummaryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// Compile-time interface checks.
var (
	_ reports.PurchaseSource = (*SummaryRepo)(nil)
	_ reports.SaleSource     = (*SummaryRepo)(nil)
	_ reports.ExpenseSource  = (*SummaryRepo)(nil)
)

// NewSummaryRepo creates a new summary repository.
func NewSummaryRepo(txm *postgres.TxManager) *SummaryRepo {
	return &SummaryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Sources returns the repo wired as all three report sources.
func (r *SummaryRepo) Sources() reports.Sources {
	return reports.Sources{Purchases: r, Sales: r, Expenses: r}
}

func (r *SummaryRepo) purchasesQuery(p reports.Predicate) (squirrel.SelectBuilder, error) {
	q := r.builder.Select("total_cost", "purchased_at").From("stock_ins")
	q, err := applyPredicate(q, "", p)
	return q.OrderBy("purchased_at"), err
}

// salesQuery joins the branch and customer names shown on the sales report.
func (r *SummaryRepo) salesQuery(p reports.Predicate) (squirrel.SelectBuilder, error) {
	q := r.builder.
		Select(
			"sales.id", "sales.branch_id", "branches.name AS branch_name",
			"sales.customer_id", "COALESCE(customers.customer, '') AS customer_name",
			"sales.exact_price", "sales.overall_price", "sales.created_at", paymentsColumn,
		).
		From("sales").
		Join("branches ON branches.id = sales.branch_id").
		LeftJoin("customers ON customers.id = sales.customer_id")

	q, err := applyPredicate(q, "sales", p)
	if p.CustomerID != nil {
		q = q.Where(squirrel.Eq{"sales.customer_id": *p.CustomerID})
	}
	return q.OrderBy("sales.created_at", "sales.id"), err
}

func (r *SummaryRepo) expensesQuery(p reports.Predicate) (squirrel.SelectBuilder, error) {
	q := r.builder.Select("amount", "spent_at").From("expenses")
	q, err := applyPredicate(q, "", p)
	return q.OrderBy("spent_at"), err
}

// FetchPurchases returns stock-ins matching p.
func (r *SummaryRepo) FetchPurchases(ctx context.Context, p reports.Predicate) ([]reports.PurchaseRecord, error) {
	if p.MatchesNothing() {
		return nil, nil
	}
	q, err := r.purchasesQuery(p)
	if err != nil {
		return nil, fmt.Errorf("build purchases query: %w", err)
	}
	return selectAll[reports.PurchaseRecord](ctx, r.txm, q, "purchases")
}

// FetchSales returns sales matching p with their customer payments.
func (r *SummaryRepo) FetchSales(ctx context.Context, p reports.Predicate) ([]reports.SaleRecord, error) {
	if p.MatchesNothing() {
		return nil, nil
	}
	q, err := r.salesQuery(p)
	if err != nil {
		return nil, fmt.Errorf("build sales query: %w", err)
	}
	return selectAll[reports.SaleRecord](ctx, r.txm, q, "sales")
}

// FetchExpenses returns expenses matching p.
func (r *SummaryRepo) FetchExpenses(ctx context.Context, p reports.Predicate) ([]reports.ExpenseRecord, error) {
	if p.MatchesNothing() {
		return nil, nil
	}
	q, err := r.expensesQuery(p)
	if err != nil {
		return nil, fmt.Errorf("build expenses query: %w", err)
	}
	return selectAll[reports.ExpenseRecord](ctx, r.txm, q, "expenses")
}

// selectAll runs q in a read-only transaction and scans every row into T.
func selectAll[T any](ctx context.Context, txm *postgres.TxManager, q squirrel.SelectBuilder, what string) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", what, err)
	}

	var items []T
	err = txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, txm.GetQuerier(ctx), &items, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	return items, nil
}
