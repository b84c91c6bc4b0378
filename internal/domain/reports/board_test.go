package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebooks/internal/core/id"
	"storebooks/internal/core/types"
)

type scriptedProvider struct {
	results [][]SummaryRow
	errs    []error
	call    int
}

func (p *scriptedProvider) GetSummaryReport(ctx context.Context, actor Actor, sort SortDirective, req ScopeRequest) ([]SummaryRow, error) {
	i := p.call
	p.call++
	if p.errs[i] != nil {
		return nil, p.errs[i]
	}
	return p.results[i], nil
}

func TestBoard_ReplacesOnlyOnSuccess(t *testing.T) {
	first := []SummaryRow{{Date: types.MustDate("2024-01-01")}}
	third := []SummaryRow{{Date: types.MustDate("2024-01-02")}, {Date: types.MustDate("2024-01-01")}}
	failure := sourceFailed(SourceSales, errors.New("boom"))

	provider := &scriptedProvider{
		results: [][]SummaryRow{first, nil, third},
		errs:    []error{nil, failure, nil},
	}
	board := NewBoard(provider)
	board.now = func() time.Time { return time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	assert.Nil(t, board.Current())

	_, err := board.Refresh(ctx, Actor{}, nil, ScopeRequest{})
	require.NoError(t, err)
	require.NotNil(t, board.Current())
	assert.Equal(t, first, board.Current().Rows)

	published := board.Current()
	_, err = board.Refresh(ctx, Actor{}, nil, ScopeRequest{})
	require.Error(t, err)
	assert.Same(t, published, board.Current(), "failed refresh must keep the previous report")

	report, err := board.Refresh(ctx, Actor{}, nil, ScopeRequest{})
	require.NoError(t, err)
	assert.Same(t, report, board.Current())
	assert.Equal(t, third, board.Current().Rows)
}

func TestBoard_WithService(t *testing.T) {
	store := newFakeStore()
	store.expenses = []branchExpense{{branchOne, ExpenseRecord{Amount: money("7"), Date: ts("2024-01-05", 1)}}}
	board := NewBoard(newTestService(store, &fakeResolver{ids: []id.ID{branchOne}}))

	report, err := board.Refresh(context.Background(), Actor{UserID: "u1"}, nil, ScopeRequest{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assertMoney(t, "-7", report.Rows[0].Profit, "profit")

	store.fail[SourceExpenses] = errors.New("down")
	_, err = board.Refresh(context.Background(), Actor{UserID: "u1"}, nil, ScopeRequest{})
	require.Error(t, err)
	assert.Same(t, report, board.Current())
}
