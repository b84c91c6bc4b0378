package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebooks/internal/core/types"
)

func TestGenerate_Reproducible(t *testing.T) {
	end := types.MustDate("2024-03-31")
	a := generate(7, 14, end, time.UTC)
	b := generate(7, 14, end, time.UTC)

	require.NotEmpty(t, a.Sales)
	assert.Equal(t, len(a.Sales), len(b.Sales))
	for i := range a.Sales {
		assert.True(t, a.Sales[i].Net.Equal(b.Sales[i].Net))
		assert.Equal(t, a.Sales[i].At, b.Sales[i].At)
	}
}

func TestGenerate_Invariants(t *testing.T) {
	end := types.MustDate("2024-03-31")
	first := end.AddDays(-29).Start(time.UTC)
	last := end.AddDays(1).Start(time.UTC)

	ds := generate(1, 30, end, time.UTC)

	inRange := func(at time.Time) bool { return !at.Before(first) && at.Before(last) }

	customers := map[int64]bool{}
	for _, c := range ds.Customers {
		customers[c.ID] = true
	}
	walkIns := 0

	for _, s := range ds.Sales {
		assert.True(t, inRange(s.At), "sale at %s", s.At)
		if s.CustomerID == nil {
			walkIns++
		} else {
			assert.True(t, customers[*s.CustomerID], "unknown customer %d", *s.CustomerID)
		}
		assert.True(t, s.Net.LessThanOrEqual(s.Gross), "net above gross")

		paid := types.Zero()
		for _, p := range s.Payments {
			assert.True(t, p.IsPositive())
			paid = paid.Add(p)
		}
		assert.True(t, paid.LessThanOrEqual(s.Net), "overpaid sale")
	}
	assert.Positive(t, walkIns)
	assert.Less(t, walkIns, len(ds.Sales))

	for _, p := range ds.Purchases {
		assert.True(t, inRange(p.At))
	}
	for _, e := range ds.Expenses {
		assert.True(t, inRange(e.At))
		assert.NotEmpty(t, e.Note)
	}
}
