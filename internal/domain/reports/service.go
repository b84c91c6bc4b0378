package reports

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"storebooks/internal/core/types"
	"storebooks/pkg/logger"
)

var tracer = otel.Tracer("storebooks/reports")

// ServiceConfig holds report computation settings.
type ServiceConfig struct {
	Money    types.MoneyPolicy
	Location *time.Location

	// Timeout bounds a whole report request. Zero disables it.
	Timeout time.Duration
}

// DefaultServiceConfig returns two-decimal half-up money, UTC days and a 30s timeout.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Money:    types.DefaultMoneyPolicy(),
		Location: time.UTC,
		Timeout:  30 * time.Second,
	}
}

// Service provides report generation operations.
type Service struct {
	sources    Sources
	composer   *Composer
	normalizer Normalizer
	aggregator Aggregator
	timeout    time.Duration
}

// NewService creates a new reports service.
func NewService(sources Sources, branches BranchResolver, cfg ServiceConfig) *Service {
	return &Service{
		sources:    sources,
		composer:   NewComposer(branches, cfg.Location),
		normalizer: NewNormalizer(cfg.Money, cfg.Location),
		aggregator: NewAggregator(cfg.Money),
		timeout:    cfg.Timeout,
	}
}

// fetched holds the raw records of the three sources. Each field is written by
// exactly one fetch goroutine and read only after the group has been joined.
type fetched struct {
	purchases []PurchaseRecord
	sales     []SaleRecord
	expenses  []ExpenseRecord
}

// GetSummaryReport computes the per-day summary for the scope, sorted by date.
// Either every source succeeds and the full result is returned, or a
// *ReportError is returned and no rows at all.
func (s *Service) GetSummaryReport(ctx context.Context, actor Actor, sort SortDirective, req ScopeRequest) ([]SummaryRow, error) {
	ctx, span := tracer.Start(ctx, "reports.summary",
		trace.WithAttributes(
			attribute.Int("report.date_range_len", len(req.DateRange)),
			attribute.Bool("report.explicit_branch", req.BranchID != nil),
		))
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()

	scope, err := s.composer.Resolve(ctx, actor, req)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	data, err := s.fetchAll(ctx, scope)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	events := make([]Event, 0, len(data.purchases)+3*len(data.sales)+len(data.expenses))
	events = append(events, s.normalizer.Purchases(data.purchases)...)
	events = append(events, s.normalizer.Sales(data.sales)...)
	events = append(events, s.normalizer.Expenses(data.expenses)...)

	rows := SortRows(s.aggregator.Aggregate(events), sort)

	span.SetAttributes(attribute.Int("report.rows", len(rows)))
	reportLog(ctx).Debugw("summary report computed",
		"purchases", len(data.purchases),
		"sales", len(data.sales),
		"expenses", len(data.expenses),
		"rows", len(rows),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return rows, nil
}

// GetSalesLines lists the sales in scope with their discount and outstanding balance.
func (s *Service) GetSalesLines(ctx context.Context, actor Actor, sort SortDirective, req ScopeRequest, filter SalesFilter) ([]SaleLine, error) {
	ctx, span := tracer.Start(ctx, "reports.sales_lines",
		trace.WithAttributes(attribute.Bool("report.customer_filter", filter.CustomerID != nil)))
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	scope, err := s.composer.Resolve(ctx, actor, req)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	sales, err := s.fetchSales(ctx, scope, filter)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	lines := make([]SaleLine, 0, len(sales))
	for _, r := range sales {
		fig := s.normalizer.SaleFigures(r)
		status := PaymentFullyPaid
		if len(r.Payments) > 0 && fig.Balance.IsPositive() {
			status = PaymentPartiallyPaid
		}
		lines = append(lines, SaleLine{
			ID:           r.ID,
			BranchID:     r.BranchID,
			BranchName:   r.BranchName,
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			Date:         types.DateOf(r.Date, s.normalizer.loc),
			CreatedAt:    r.Date,
			GrossAmount:  s.normalizer.money.Round(r.GrossAmount),
			Discount:     fig.Discount,
			NetAmount:    fig.Net,
			Paid:         fig.Paid,
			Balance:      fig.Balance,
			Status:       status,
		})
	}

	return SortSaleLines(lines, sort), nil
}

// fetchAll queries the three sources concurrently. The first failure cancels
// the others and is returned; otherwise it waits for all three.
func (s *Service) fetchAll(ctx context.Context, scope *Scope) (*fetched, error) {
	var out fetched
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recs, err := traced(gctx, SourcePurchases, func(ctx context.Context) ([]PurchaseRecord, error) {
			return s.sources.Purchases.FetchPurchases(ctx, scope.Compose(PurchaseDateKey))
		})
		out.purchases = recs
		return err
	})
	g.Go(func() error {
		recs, err := s.fetchSales(gctx, scope, SalesFilter{})
		out.sales = recs
		return err
	})
	g.Go(func() error {
		recs, err := traced(gctx, SourceExpenses, func(ctx context.Context) ([]ExpenseRecord, error) {
			return s.sources.Expenses.FetchExpenses(ctx, scope.Compose(ExpenseDateKey))
		})
		out.expenses = recs
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) fetchSales(ctx context.Context, scope *Scope, filter SalesFilter) ([]SaleRecord, error) {
	p := scope.Compose(SaleDateKey)
	if filter.CustomerID != nil {
		customer := *filter.CustomerID
		p.CustomerID = &customer
	}
	return traced(ctx, SourceSales, func(ctx context.Context) ([]SaleRecord, error) {
		return s.sources.Sales.FetchSales(ctx, p)
	})
}

// traced runs one source fetch inside its own span and maps its error.
func traced[T any](ctx context.Context, source string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	ctx, span := tracer.Start(ctx, "reports.fetch."+source)
	defer span.End()

	recs, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, sourceFailed(source, err)
	}
	span.SetAttributes(attribute.Int("report.records", len(recs)))
	return recs, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(KindOf(err)))
	reportLog(ctx).Warnw("report failed", "kind", KindOf(err), "error", err)
	return err
}

func reportLog(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx).WithComponent("reports")
}
