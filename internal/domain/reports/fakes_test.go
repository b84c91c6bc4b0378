package reports

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"storebooks/internal/core/id"
	"storebooks/internal/core/types"
)

var (
	branchOne = id.MustParse("0190c2a0-0000-7000-8000-000000000001")
	branchTwo = id.MustParse("0190c2a0-0000-7000-8000-000000000002")
)

func ts(day string, hour int) time.Time {
	return types.MustDate(day).Start(time.UTC).Add(time.Duration(hour) * time.Hour)
}

func money(s string) types.Money { return types.MustMoney(s) }

// fakeStore is an in-memory record store honouring Predicate semantics.
type fakeStore struct {
	purchases []branchPurchase
	sales     []SaleRecord
	expenses  []branchExpense

	mu    sync.Mutex
	seen  map[string]Predicate
	fail  map[string]error
	delay time.Duration
}

type branchPurchase struct {
	branch id.ID
	rec    PurchaseRecord
}

type branchExpense struct {
	branch id.ID
	rec    ExpenseRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: map[string]Predicate{}, fail: map[string]error{}}
}

func (f *fakeStore) record(source string, p Predicate) error {
	f.mu.Lock()
	f.seen[source] = p
	err := f.fail[source]
	f.mu.Unlock()
	return err
}

func (f *fakeStore) wait(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func matches(p Predicate, branch id.ID, at time.Time) bool {
	if p.BranchID != nil {
		if *p.BranchID != branch {
			return false
		}
	} else {
		found := false
		for _, b := range p.BranchIDs {
			if b == branch {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.HasDateWindow() {
		if at.Before(*p.From) || !at.Before(*p.Until) {
			return false
		}
	}
	return true
}

func (f *fakeStore) FetchPurchases(ctx context.Context, p Predicate) ([]PurchaseRecord, error) {
	if err := f.record(SourcePurchases, p); err != nil {
		return nil, err
	}
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	var out []PurchaseRecord
	for _, r := range f.purchases {
		if matches(p, r.branch, r.rec.Date) {
			out = append(out, r.rec)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchSales(ctx context.Context, p Predicate) ([]SaleRecord, error) {
	if err := f.record(SourceSales, p); err != nil {
		return nil, err
	}
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	var out []SaleRecord
	for _, r := range f.sales {
		if !matches(p, r.BranchID, r.Date) {
			continue
		}
		if p.CustomerID != nil && (r.CustomerID == nil || *r.CustomerID != *p.CustomerID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) FetchExpenses(ctx context.Context, p Predicate) ([]ExpenseRecord, error) {
	if err := f.record(SourceExpenses, p); err != nil {
		return nil, err
	}
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	var out []ExpenseRecord
	for _, r := range f.expenses {
		if matches(p, r.branch, r.rec.Date) {
			out = append(out, r.rec)
		}
	}
	return out, nil
}

func (f *fakeStore) sources() Sources {
	return Sources{Purchases: f, Sales: f, Expenses: f}
}

// fakeResolver returns a fixed branch set and counts calls.
type fakeResolver struct {
	ids   []id.ID
	err   error
	calls atomic.Int32
}

func (r *fakeResolver) ResolveBranchIDs(ctx context.Context, actor Actor) ([]id.ID, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return r.ids, nil
}
