package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"storebooks/internal/domain/reports"
	"storebooks/internal/infrastructure/export"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	actor  reports.Actor
	scope  reports.ScopeRequest
	filter reports.SalesFilter
	sort   reports.SortDirective
	sales  bool
	format string // table, csv or xlsx
	out    string
	watch  time.Duration
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: summary [flags]")
		fmt.Fprintln(stderr, "  summary -user u1 -date 2024-01-01 -date 2024-01-31 -sort date:asc")
		fs.PrintDefaults()
	}

	var (
		dates, sort listFlag
		opts        options
		branch      string
		customer    string
	)
	fs.StringVar(&opts.actor.UserID, "user", "", "user whose branches are reported on")
	fs.BoolVar(&opts.actor.IsAdmin, "admin", false, "report on every branch")
	fs.StringVar(&branch, "branch", "", "single branch id; must be visible to -user unless -admin")
	fs.StringVar(&customer, "customer", "", "customer id (with -sales)")
	fs.Var(&dates, "date", "YYYY-MM-DD; give once for a day, twice for an inclusive range")
	fs.Var(&sort, "sort", "key:order, e.g. date:asc (repeatable)")
	fs.BoolVar(&opts.sales, "sales", false, "list individual sales instead of daily totals")
	fs.StringVar(&opts.format, "format", "table", "table, csv or xlsx")
	fs.StringVar(&opts.out, "out", "", "output file (default stdout)")
	fs.DurationVar(&opts.watch, "watch", 0, "refresh the report at this interval")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var err error
	if opts.scope, err = reports.ParseScopeRequest(branch, dates); err != nil {
		return options{}, err
	}
	if opts.sort, err = reports.ParseSortDirective(sort); err != nil {
		return options{}, err
	}
	if customer != "" && !opts.sales {
		return options{}, errors.New("-customer applies to -sales only")
	}
	if opts.filter, err = reports.ParseSalesFilter(customer); err != nil {
		return options{}, err
	}

	opts.format = strings.ToLower(opts.format)
	if opts.format != "table" {
		if _, err := export.ParseFormat(opts.format); err != nil {
			return options{}, err
		}
	}
	if opts.format == string(export.FormatXLSX) && opts.out == "" {
		return options{}, errors.New("-format xlsx needs -out")
	}
	if opts.watch < 0 {
		return options{}, errors.New("-watch must be positive")
	}
	if opts.watch > 0 && opts.sales {
		return options{}, errors.New("-watch applies to daily totals only")
	}
	if opts.actor.UserID == "" && !opts.actor.IsAdmin {
		return options{}, errors.New("one of -user or -admin is required")
	}

	return opts, nil
}
