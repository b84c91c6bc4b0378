package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"storebooks/internal/core/apperror"
	"storebooks/internal/domain/reports"
	"storebooks/internal/infrastructure/export"
	"storebooks/internal/infrastructure/http/v1/dto"
	"storebooks/pkg/logger"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
	now     func() time.Time
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		now:         time.Now,
	}
}

// reportRequest is a parsed ReportQuery.
type reportRequest struct {
	scope  reports.ScopeRequest
	sales  reports.SalesFilter
	sort   reports.SortDirective
	format export.Format
}

// parse reads the report query. A customer filter is accepted only when
// salesReport is set.
func (h *ReportsHandler) parse(c *gin.Context, salesReport bool) (reportRequest, bool) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return reportRequest{}, false
	}

	scope, err := reports.ParseScopeRequest(q.BranchID, q.Dates)
	if err != nil {
		h.Error(c, err)
		return reportRequest{}, false
	}

	sort, err := reports.ParseSortDirective(q.Sort)
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()).WithDetail("field", "sort"))
		return reportRequest{}, false
	}

	var sales reports.SalesFilter
	if q.CustomerID != "" {
		if !salesReport {
			h.Error(c, apperror.NewValidation("customerId applies to the sales report only").WithDetail("field", "customerId"))
			return reportRequest{}, false
		}
		if sales, err = reports.ParseSalesFilter(q.CustomerID); err != nil {
			h.Error(c, err)
			return reportRequest{}, false
		}
	}

	var format export.Format
	if q.Format != "" {
		if format, err = export.ParseFormat(q.Format); err != nil {
			h.Error(c, apperror.NewValidation(err.Error()).WithDetail("field", "format"))
			return reportRequest{}, false
		}
	}

	return reportRequest{scope: scope, sales: sales, sort: sort, format: format}, true
}

// actor builds the report actor from the authenticated user.
func (h *ReportsHandler) actor(c *gin.Context) reports.Actor {
	user := h.GetUser(c)
	if user == nil {
		return reports.Actor{}
	}
	return reports.Actor{UserID: user.UserID, IsAdmin: user.IsAdmin}
}

// GetSummary handles GET /reports/summary
func (h *ReportsHandler) GetSummary(c *gin.Context) {
	req, ok := h.parse(c, false)
	if !ok {
		return
	}

	rows, err := h.service.GetSummaryReport(c.Request.Context(), h.actor(c), req.sort, req.scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSummaryRows(rows, req.sort, req.scope, h.now()))
}

// ExportSummary handles GET /reports/summary/export
func (h *ReportsHandler) ExportSummary(c *gin.Context) {
	req, ok := h.parse(c, false)
	if !ok {
		return
	}
	if req.format == "" {
		req.format = export.FormatCSV
	}

	rows, err := h.service.GetSummaryReport(c.Request.Context(), h.actor(c), req.sort, req.scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.download(c, req.format, "summary", export.SummaryTable(rows))
}

// GetSales handles GET /reports/sales. With format set the lines are
// returned as a file instead of JSON.
func (h *ReportsHandler) GetSales(c *gin.Context) {
	req, ok := h.parse(c, true)
	if !ok {
		return
	}

	lines, err := h.service.GetSalesLines(c.Request.Context(), h.actor(c), req.sort, req.scope, req.sales)
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.format != "" {
		h.download(c, req.format, "sales", export.SalesTable(lines))
		return
	}
	h.OK(c, dto.FromSaleLines(lines, req.sort, req.scope, req.sales, h.now()))
}

func (h *ReportsHandler) download(c *gin.Context, format export.Format, name string, table export.Table) {
	filename := format.Filename(name + "-" + h.now().Format("20060102"))
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.Write(c.Writer, format, table); err != nil {
		// Headers are already out; all we can do is log.
		logger.Error(c.Request.Context(), "export failed", "format", format, "error", err)
	}
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.GetSummary)
	rg.GET("/summary/export", h.ExportSummary)
	rg.GET("/sales", h.GetSales)
}
