package dto

import (
	"time"

	"storebooks/internal/domain/reports"
)

// ReportQuery is the query string shared by report endpoints:
//
//	?branchId=<uuid>&date=2024-01-01&date=2024-01-31&sort=date:asc&format=csv
//
// CustomerID is accepted by the sales report only.
type ReportQuery struct {
	BranchID   string   `form:"branchId"`
	CustomerID string   `form:"customerId"`
	Dates      []string `form:"date"`
	Sort       []string `form:"sort"`
	Format     string   `form:"format"`
}

// ReportMeta describes how a report was produced.
type ReportMeta struct {
	Count       int       `json:"count"`
	Order       string    `json:"order"`
	BranchID    string    `json:"branchId,omitempty"`
	CustomerID  *int64    `json:"customerId,omitempty"`
	Dates       []string  `json:"dates,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// SummaryResponse is the JSON body of the summary endpoint.
type SummaryResponse struct {
	Data []reports.SummaryRow `json:"data"`
	Meta ReportMeta           `json:"meta"`
}

// SalesResponse is the JSON body of the sales endpoint.
type SalesResponse struct {
	Data []reports.SaleLine `json:"data"`
	Meta ReportMeta         `json:"meta"`
}

// NewReportMeta builds response metadata for n rows.
func NewReportMeta(n int, sort reports.SortDirective, req reports.ScopeRequest, now time.Time) ReportMeta {
	meta := ReportMeta{Count: n, Order: string(reports.SortDesc), GeneratedAt: now}
	if sort.Ascending() {
		meta.Order = string(reports.SortAsc)
	}
	if req.BranchID != nil {
		meta.BranchID = req.BranchID.String()
	}
	for _, d := range req.DateRange {
		meta.Dates = append(meta.Dates, d.String())
	}
	return meta
}

// FromSummaryRows converts report rows to the response body.
// An empty report is returned as an empty array, not null.
func FromSummaryRows(rows []reports.SummaryRow, sort reports.SortDirective, req reports.ScopeRequest, now time.Time) SummaryResponse {
	if rows == nil {
		rows = []reports.SummaryRow{}
	}
	return SummaryResponse{Data: rows, Meta: NewReportMeta(len(rows), sort, req, now)}
}

// FromSaleLines converts sale lines to the response body.
func FromSaleLines(lines []reports.SaleLine, sort reports.SortDirective, req reports.ScopeRequest, filter reports.SalesFilter, now time.Time) SalesResponse {
	if lines == nil {
		lines = []reports.SaleLine{}
	}
	meta := NewReportMeta(len(lines), sort, req, now)
	meta.CustomerID = filter.CustomerID
	return SalesResponse{Data: lines, Meta: meta}
}
