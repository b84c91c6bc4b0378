package reports

import (
	"context"
	"errors"
	"fmt"

	"storebooks/internal/core/apperror"
	"storebooks/internal/core/id"
)

// ErrorKind classifies a failed report.
type ErrorKind string

const (
	KindInvalidScope ErrorKind = "invalid_scope"
	KindSourceFetch  ErrorKind = "source_fetch"
	KindResolution   ErrorKind = "resolution"
	KindForbidden    ErrorKind = "forbidden"
)

// Source names used in errors, logs and spans.
const (
	SourcePurchases = "purchases"
	SourceSales     = "sales"
	SourceExpenses  = "expenses"
)

// ReportError is the single failure signal of a report request.
// Its chain carries an *apperror.AppError for the HTTP layer, then the cause.
type ReportError struct {
	Kind   ErrorKind
	Source string
	Err    error
}

func (e *ReportError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("summary report %s (%s): %v", e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("summary report %s: %v", e.Kind, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func invalidScope(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &ReportError{Kind: KindInvalidScope, Err: apperror.NewInvalidScope(msg)}
}

// A source or lookup that ran out of time is reported as a timeout (504)
// rather than an upstream failure (502). The kind stays the same.
func sourceFailed(source string, err error) error {
	appErr := apperror.NewSourceFetch(source, err)
	if errors.Is(err, context.DeadlineExceeded) {
		appErr = apperror.NewTimeout(err).WithDetail("source", source)
	}
	return &ReportError{Kind: KindSourceFetch, Source: source, Err: appErr}
}

func resolutionFailed(err error) error {
	appErr := apperror.NewBranchResolution(err)
	if errors.Is(err, context.DeadlineExceeded) {
		appErr = apperror.NewTimeout(err)
	}
	return &ReportError{Kind: KindResolution, Err: appErr}
}

func forbiddenBranch(branch id.ID) error {
	return &ReportError{
		Kind: KindForbidden,
		Err:  apperror.NewForbidden("branch is not accessible").WithDetail("branchId", branch.String()),
	}
}

// KindOf returns the kind of a report failure, or "" if err is not one.
func KindOf(err error) ErrorKind {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
