package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/types"
	"timebill/internal/domain/timesheet"
	"timebill/internal/infrastructure/http/v1/dto"
)

// TimesheetHandler serves the timesheet document lifecycle. Authorization
// and the state machine live in the domain service; the handler only
// translates HTTP.
type TimesheetHandler struct {
	*BaseHandler
	service *timesheet.Service
}

// NewTimesheetHandler creates a new timesheet handler.
func NewTimesheetHandler(base *BaseHandler, service *timesheet.Service) *TimesheetHandler {
	return &TimesheetHandler{BaseHandler: base, service: service}
}

// Create handles POST /timesheets.
func (h *TimesheetHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.CreateTimesheetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, err := req.ResolveUserID(actor.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}
	clientID, err := id.Parse(req.ClientID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "clientId"))
		return
	}
	businessID, ok := h.ResolveBusinessID(c, actor, req.BusinessID)
	if !ok {
		return
	}

	ts := timesheet.New(businessID, userID, clientID, req.StartDate, req.EndDate)
	for _, e := range req.Entries {
		// Zero snapshot; the service fills it from the active rate card.
		ts.AddEntry(e.EntryDate, e.DailyHours, e.ExtraHours, e.VacationHours, e.Note, types.Money{})
	}
	if req.Status != "" {
		status, err := timesheet.ParseStatus(req.Status)
		if err != nil {
			h.Error(c, err)
			return
		}
		ts.Status = status
	}

	if err := h.service.Create(ctx, ts); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, ts)
}

// Get handles GET /timesheets/:id.
func (h *TimesheetHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	tsID, ok := h.ParseID(c)
	if !ok {
		return
	}

	ts, err := h.service.GetByID(ctx, tsID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ts)
}

// List handles GET /timesheets.
func (h *TimesheetHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.TimesheetListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := h.buildFilter(query)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListPayload{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Update handles PUT /timesheets/:id - replaces period and entries.
func (h *TimesheetHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	tsID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateTimesheetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ts, err := h.service.Update(ctx, tsID, req.ToEntries(), req.StartDate, req.EndDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ts)
}

// Delete handles DELETE /timesheets/:id.
func (h *TimesheetHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	tsID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, tsID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ChangeStatus handles PATCH /timesheets/:id/status.
func (h *TimesheetHandler) ChangeStatus(c *gin.Context) {
	ctx := c.Request.Context()

	tsID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	status, err := timesheet.ParseStatus(req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	ts, err := h.service.ChangeStatus(ctx, tsID, status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ts)
}

// buildFilter translates list query parameters into the domain filter.
func (h *TimesheetHandler) buildFilter(query dto.TimesheetListQuery) (timesheet.ListFilter, error) {
	filter := timesheet.DefaultListFilter()
	filter.Search = query.Search
	filter.IncludeDeleted = query.IncludeDeleted
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.Limit > 0 {
		filter.Limit = query.Limit
	}
	if query.Offset > 0 {
		filter.Offset = query.Offset
	}
	filter.Year = query.Year
	filter.Month = query.Month

	if query.UserID != "" {
		userID, err := id.Parse(query.UserID)
		if err != nil {
			return filter, apperror.NewValidation("invalid id").WithDetail("field", "userId")
		}
		filter.UserID = &userID
	}
	if query.ClientID != "" {
		clientID, err := id.Parse(query.ClientID)
		if err != nil {
			return filter, apperror.NewValidation("invalid id").WithDetail("field", "clientId")
		}
		filter.ClientID = &clientID
	}
	if query.Status != "" {
		status, err := timesheet.ParseStatus(query.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if query.DateFrom != "" {
		from, err := time.Parse("2006-01-02", query.DateFrom)
		if err != nil {
			return filter, apperror.NewValidation("invalid date").WithDetail("field", "dateFrom")
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse("2006-01-02", query.DateTo)
		if err != nil {
			return filter, apperror.NewValidation("invalid date").WithDetail("field", "dateTo")
		}
		filter.DateTo = &to
	}

	return filter, nil
}
