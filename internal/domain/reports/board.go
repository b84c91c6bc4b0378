package reports

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SummaryProvider computes summary reports. *Service implements it.
type SummaryProvider interface {
	GetSummaryReport(ctx context.Context, actor Actor, sort SortDirective, req ScopeRequest) ([]SummaryRow, error)
}

// Board publishes the latest successfully computed summary report.
// A refresh replaces the published report only once the new one is complete;
// a failed refresh leaves the previous report in place.
type Board struct {
	provider SummaryProvider
	now      func() time.Time

	// refreshMu serialises refreshes so an older request cannot overwrite a newer one.
	refreshMu sync.Mutex
	current   atomic.Pointer[SummaryReport]
}

// NewBoard creates an empty Board.
func NewBoard(provider SummaryProvider) *Board {
	return &Board{provider: provider, now: time.Now}
}

// Current returns the published report, or nil if none has succeeded yet.
func (b *Board) Current() *SummaryReport {
	return b.current.Load()
}

// Refresh computes a new report and publishes it on success.
func (b *Board) Refresh(ctx context.Context, actor Actor, sort SortDirective, req ScopeRequest) (*SummaryReport, error) {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	rows, err := b.provider.GetSummaryReport(ctx, actor, sort, req)
	if err != nil {
		return nil, err
	}

	report := &SummaryReport{
		Rows:        rows,
		Scope:       req,
		Sort:        sort,
		GeneratedAt: b.now(),
	}
	b.current.Store(report)

	return report, nil
}
