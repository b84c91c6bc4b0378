package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebooks/internal/core/types"
	"storebooks/internal/domain/reports"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{
		"-user", "u1", "-date", "2024-01-31", "-date", "2024-01-01", "-sort", "date:asc", "-format", "CSV",
	}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "u1", opts.actor.UserID)
	assert.Len(t, opts.scope.DateRange, 2)
	assert.True(t, opts.sort.Ascending())
	assert.Equal(t, "csv", opts.format)

	opts, err = parseOptions([]string{"-user", "u1", "-sales", "-customer", "12"}, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, opts.filter.CustomerID)
	assert.Equal(t, int64(12), *opts.filter.CustomerID)

	bad := map[string][]string{
		"no actor":          {"-date", "2024-01-01"},
		"branch only":       {"-branch", "0190c2a0-0000-7000-8000-000000000001"},
		"customer no sales": {"-admin", "-customer", "12"},
		"bad customer":      {"-admin", "-sales", "-customer", "abc"},
		"three dates":       {"-admin", "-date", "2024-01-01", "-date", "2024-01-02", "-date", "2024-01-03"},
		"unknown format":    {"-admin", "-format", "pdf"},
		"xlsx to stdout":    {"-admin", "-format", "xlsx"},
		"bad sort":          {"-admin", "-sort", "date:up"},
		"watch with sales":  {"-admin", "-sales", "-watch", "1s"},
	}
	for name, args := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := parseOptions(args, io.Discard)
			assert.Error(t, err)
		})
	}
}

type scriptedService struct {
	rows  []reports.SummaryRow
	errs  []error
	calls int
}

func (s *scriptedService) GetSummaryReport(ctx context.Context, actor reports.Actor, sort reports.SortDirective, req reports.ScopeRequest) ([]reports.SummaryRow, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.rows, nil
}

func (s *scriptedService) GetSalesLines(ctx context.Context, actor reports.Actor, sort reports.SortDirective, req reports.ScopeRequest, filter reports.SalesFilter) ([]reports.SaleLine, error) {
	return []reports.SaleLine{{ID: 9, Date: types.MustDate("2024-01-05"), Status: reports.PaymentFullyPaid}}, nil
}

func row(day, profit string) reports.SummaryRow {
	z := types.Zero()
	return reports.SummaryRow{Date: types.MustDate(day), Inventory: z, Sales: z, Discount: z, Collectible: z, Expenses: z, Profit: types.MustMoney(profit)}
}

func TestRun_Once(t *testing.T) {
	svc := &scriptedService{rows: []reports.SummaryRow{row("2024-01-05", "300")}}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), svc, options{format: "csv"}, &out))
	assert.Equal(t, "Date,Inventory,Sales,Discount,Collectible,Expenses,Profit\n2024-01-05,0,0,0,0,0,300\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), svc, options{format: "csv", sales: true}, &out))
	assert.Contains(t, out.String(), "9,2024-01-05")
}

func TestRun_WatchKeepsLastGoodReport(t *testing.T) {
	svc := &scriptedService{
		rows: []reports.SummaryRow{row("2024-01-05", "1")},
		errs: []error{nil, errors.New("down")},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := run(ctx, svc, options{format: "table", watch: 10 * time.Millisecond}, &out)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.GreaterOrEqual(t, svc.calls, 2)
	assert.Equal(t, svc.calls-1, strings.Count(out.String(), "# "), "only successful refreshes are printed")
}
