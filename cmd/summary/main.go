// Package main provides a CLI that prints summary and sales reports
// straight from the record store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storebooks/internal/config"
	appctx "storebooks/internal/core/context"
	"storebooks/internal/domain/reports"
	"storebooks/internal/infrastructure/export"
	"storebooks/internal/infrastructure/storage/postgres"
	"storebooks/internal/infrastructure/storage/postgres/report_repo"
	"storebooks/pkg/logger"
)

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "summary: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())
	ctx = logger.WithLogger(ctx, log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	repo := report_repo.NewSummaryRepo(txm)
	svc := reports.NewService(repo.Sources(), report_repo.NewBranchRepo(txm), reports.ServiceConfig{
		Money:    cfg.Report.Money,
		Location: cfg.Report.Location,
		Timeout:  cfg.Report.Timeout,
	})

	if err := run(ctx, svc, opts, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "report failed", "error", err)
		os.Exit(1)
	}
}

// reportService is the part of reports.Service the CLI uses.
type reportService interface {
	reports.SummaryProvider
	GetSalesLines(ctx context.Context, actor reports.Actor, sort reports.SortDirective, req reports.ScopeRequest, filter reports.SalesFilter) ([]reports.SaleLine, error)
}

func run(ctx context.Context, svc reportService, opts options, stdout io.Writer) error {
	if opts.watch > 0 {
		return watch(ctx, reports.NewBoard(svc), opts, stdout)
	}

	var table export.Table
	if opts.sales {
		lines, err := svc.GetSalesLines(ctx, opts.actor, opts.sort, opts.scope, opts.filter)
		if err != nil {
			return err
		}
		table = export.SalesTable(lines)
	} else {
		rows, err := svc.GetSummaryReport(ctx, opts.actor, opts.sort, opts.scope)
		if err != nil {
			return err
		}
		table = export.SummaryTable(rows)
	}

	return emit(table, opts, stdout)
}

// watch refreshes the board every interval. A failed refresh is logged and
// the previously published report stays current.
func watch(ctx context.Context, board *reports.Board, opts options, stdout io.Writer) error {
	ticker := time.NewTicker(opts.watch)
	defer ticker.Stop()

	for {
		report, err := board.Refresh(ctx, opts.actor, opts.sort, opts.scope)
		switch {
		case err == nil:
			fmt.Fprintf(stdout, "\n# %s\n", report.GeneratedAt.Format(time.RFC3339))
			if err := emit(export.SummaryTable(report.Rows), opts, stdout); err != nil {
				return err
			}
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			kv := []any{"error", err, "kind", reports.KindOf(err)}
			if last := board.Current(); last != nil {
				kv = append(kv, "showing_since", last.GeneratedAt)
			}
			logger.Warn(ctx, "refresh failed, keeping previous report", kv...)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func emit(table export.Table, opts options, stdout io.Writer) error {
	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if opts.format == "table" {
		return export.WriteTable(w, table)
	}
	return export.Write(w, export.Format(opts.format), table)
}
