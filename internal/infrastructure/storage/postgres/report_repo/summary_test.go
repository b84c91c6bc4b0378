package report_repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebooks/internal/core/id"
	"storebooks/internal/domain/reports"
)

var (
	branchA = id.MustParse("0190c2a0-0000-7000-8000-00000000000a")
	branchB = id.MustParse("0190c2a0-0000-7000-8000-00000000000b")
)

func window() (*time.Time, *time.Time) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return &from, &until
}

func TestSummaryRepo_PurchasesQuery(t *testing.T) {
	repo := NewSummaryRepo(nil)
	from, until := window()

	tests := []struct {
		name     string
		p        reports.Predicate
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "explicit branch",
			p:        reports.Predicate{BranchID: &branchA, DateKey: reports.PurchaseDateKey},
			wantSQL:  "SELECT total_cost, purchased_at FROM stock_ins WHERE branch_id = $1 ORDER BY purchased_at",
			wantArgs: []any{branchA.String()},
		},
		{
			name:     "resolved branches",
			p:        reports.Predicate{BranchIDs: []id.ID{branchA, branchB}, DateKey: reports.PurchaseDateKey},
			wantSQL:  "SELECT total_cost, purchased_at FROM stock_ins WHERE branch_id IN ($1,$2) ORDER BY purchased_at",
			wantArgs: []any{branchA.String(), branchB.String()},
		},
		{
			name: "half-open window",
			p:    reports.Predicate{BranchID: &branchA, DateKey: reports.PurchaseDateKey, From: from, Until: until},
			wantSQL: "SELECT total_cost, purchased_at FROM stock_ins WHERE branch_id = $1 " +
				"AND purchased_at >= $2 AND purchased_at < $3 ORDER BY purchased_at",
			wantArgs: []any{branchA.String(), *from, *until},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.purchasesQuery(tt.p)
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSummaryRepo_ExpensesQuery(t *testing.T) {
	from, until := window()
	q, err := NewSummaryRepo(nil).expensesQuery(reports.Predicate{
		BranchIDs: []id.ID{branchB}, DateKey: reports.ExpenseDateKey, From: from, Until: until,
	})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT amount, spent_at FROM expenses WHERE branch_id IN ($1) "+
		"AND spent_at >= $2 AND spent_at < $3 ORDER BY spent_at", sql)
	assert.Equal(t, []any{branchB.String(), *from, *until}, args)
}

func TestSummaryRepo_SalesQuery(t *testing.T) {
	q, err := NewSummaryRepo(nil).salesQuery(reports.Predicate{BranchID: &branchA, DateKey: reports.SaleDateKey})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT sales.id, sales.branch_id, branches.name AS branch_name, "+
		"sales.customer_id, COALESCE(customers.customer, '') AS customer_name, "+
		"sales.exact_price, sales.overall_price, sales.created_at, COALESCE(")
	assert.Contains(t, sql, "FROM customer_payments cp")
	assert.Contains(t, sql, "AS customer_payments FROM sales "+
		"JOIN branches ON branches.id = sales.branch_id "+
		"LEFT JOIN customers ON customers.id = sales.customer_id "+
		"WHERE sales.branch_id = $1 ORDER BY sales.created_at, sales.id")
	assert.Equal(t, []any{branchA.String()}, args)
}

func TestSummaryRepo_SalesQueryByCustomer(t *testing.T) {
	from, until := window()
	customer := int64(7)

	q, err := NewSummaryRepo(nil).salesQuery(reports.Predicate{
		BranchIDs: []id.ID{branchA, branchB}, DateKey: reports.SaleDateKey,
		From: from, Until: until, CustomerID: &customer,
	})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE sales.branch_id IN ($1,$2) "+
		"AND sales.created_at >= $3 AND sales.created_at < $4 "+
		"AND sales.customer_id = $5 ORDER BY sales.created_at, sales.id")
	assert.Equal(t, []any{branchA.String(), branchB.String(), *from, *until, int64(7)}, args)
}

func TestApplyPredicate_RejectsUnknownColumn(t *testing.T) {
	_, err := NewSummaryRepo(nil).salesQuery(reports.Predicate{BranchID: &branchA, DateKey: "1=1; DROP TABLE sales"})
	assert.Error(t, err)
}

func TestSummaryRepo_EmptyScopeSkipsDatabase(t *testing.T) {
	// A nil TxManager would panic if a query were attempted.
	repo := NewSummaryRepo(nil)
	p := reports.Predicate{BranchIDs: []id.ID{}, DateKey: reports.SaleDateKey}
	ctx := context.Background()

	purchases, err := repo.FetchPurchases(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, purchases)

	sales, err := repo.FetchSales(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, sales)

	expenses, err := repo.FetchExpenses(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestBranchRepo_Query(t *testing.T) {
	repo := NewBranchRepo(nil)

	sql, args, err := repo.branchesQuery(reports.Actor{IsAdmin: true}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT b.id FROM branches b ORDER BY b.id", sql)
	assert.Empty(t, args)

	sql, args, err = repo.branchesQuery(reports.Actor{UserID: "user-1"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT b.id FROM branches b JOIN user_branches ub ON ub.branch_id = b.id "+
		"WHERE ub.user_id = $1 ORDER BY b.id", sql)
	assert.Equal(t, []any{"user-1"}, args)

	ids, err := repo.ResolveBranchIDs(context.Background(), reports.Actor{})
	require.NoError(t, err)
	assert.Empty(t, ids)
}
