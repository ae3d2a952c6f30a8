package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/domain/reports"
	"timebill/internal/domain/timesheet"
	"timebill/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the dashboard rollup endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Summary handles GET /chart/summary.
func (h *ReportsHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	filter, _, ok := h.parseQuery(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// Trend handles GET /chart/trend.
func (h *ReportsHandler) Trend(c *gin.Context) {
	ctx := c.Request.Context()

	filter, query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	period, err := reports.ParsePeriod(query.Period)
	if err != nil {
		h.Error(c, err)
		return
	}

	buckets, err := h.service.Trend(ctx, filter, period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, buckets)
}

// StatusCounts handles GET /chart/status.
func (h *ReportsHandler) StatusCounts(c *gin.Context) {
	ctx := c.Request.Context()

	filter, _, ok := h.parseQuery(c)
	if !ok {
		return
	}

	counts, err := h.service.StatusCounts(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, counts)
}

// Export handles GET /reports. Only the json format is implemented;
// requesting pdf, excel or csv yields a validation error.
func (h *ReportsHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	filter, query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	format := query.Type
	if format == "" {
		format = "json"
	}
	if format != "json" {
		h.Error(c, apperror.NewValidation("unsupported report format").
			WithDetail("field", "type").
			WithDetail("value", format).
			WithDetail("supported", []string{"json"}))
		return
	}

	summary, err := h.service.Summary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	counts, err := h.service.StatusCounts(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"summary":  summary,
		"statuses": counts,
	})
}

// parseQuery translates report query parameters into the record filter.
func (h *ReportsHandler) parseQuery(c *gin.Context) (timesheet.ListFilter, dto.ReportQuery, bool) {
	var query dto.ReportQuery
	filter := timesheet.DefaultListFilter()
	if !h.BindQuery(c, &query) {
		return filter, query, false
	}

	filter.Year = query.Year
	filter.Month = query.Month

	if query.UserID != "" {
		userID, err := id.Parse(query.UserID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "userId"))
			return filter, query, false
		}
		filter.UserID = &userID
	}
	if query.ClientID != "" {
		clientID, err := id.Parse(query.ClientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "clientId"))
			return filter, query, false
		}
		filter.ClientID = &clientID
	}
	if query.Status != "" {
		status, err := timesheet.ParseStatus(query.Status)
		if err != nil {
			h.Error(c, err)
			return filter, query, false
		}
		filter.Status = &status
	}
	if query.DateFrom != "" {
		from, err := time.Parse("2006-01-02", query.DateFrom)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date").WithDetail("field", "dateFrom"))
			return filter, query, false
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse("2006-01-02", query.DateTo)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date").WithDetail("field", "dateTo"))
			return filter, query, false
		}
		filter.DateTo = &to
	}

	return filter, query, true
}
