package handlers

import (
	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/security"
	"timebill/internal/domain"
	"timebill/internal/domain/catalogs/ratecard"
	"timebill/internal/infrastructure/http/v1/dto"
)

// RateCardHandler serves the rate card catalog. It does not reuse the
// generic catalog handler because creation and update go through the
// service overrides that demote previously active cards.
type RateCardHandler struct {
	*BaseHandler
	service *ratecard.Service
}

// NewRateCardHandler creates a new rate card handler.
func NewRateCardHandler(base *BaseHandler, service *ratecard.Service) *RateCardHandler {
	return &RateCardHandler{BaseHandler: base, service: service}
}

// List handles GET /rate-cards.
func (h *RateCardHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-code")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"
	filter.Scope = security.ScopeByBusiness(actor)

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

// Get handles GET /rate-cards/:id.
func (h *RateCardHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	cardID, ok := h.ParseID(c)
	if !ok {
		return
	}

	record, err := h.service.GetByID(ctx, cardID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireView(actor, record, "rate card"); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// GetActiveForUser handles GET /rate-cards/active?userId=...
// Returns the single card currently in effect for the consultant.
func (h *RateCardHandler) GetActiveForUser(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	rawUser := c.Query("userId")
	if rawUser == "" {
		rawUser = actor.UserID
	}
	userID, err := id.Parse(rawUser)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "userId"))
		return
	}

	businessID, ok := h.ResolveBusinessID(c, actor, c.Query("businessId"))
	if !ok {
		return
	}

	record, err := h.service.FindActiveByUser(ctx, businessID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// ListForUser handles GET /rate-cards/by-user/:id - card history, newest first.
func (h *RateCardHandler) ListForUser(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	userID, ok := h.ParseID(c)
	if !ok {
		return
	}

	businessID, ok := h.ResolveBusinessID(c, actor, c.Query("businessId"))
	if !ok {
		return
	}

	records, err := h.service.ListByUser(ctx, businessID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, records)
}

// Create handles POST /rate-cards.
func (h *RateCardHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.CreateRateCardRequest
	if !h.BindJSON(c, &req) {
		return
	}

	businessID, ok := h.ResolveBusinessID(c, actor, req.BusinessID)
	if !ok {
		return
	}

	record, err := req.ToEntity(businessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, record, "rate card"); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, record); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, record)
}

// Update handles PUT /rate-cards/:id.
func (h *RateCardHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	cardID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateRateCardRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.service.GetByID(ctx, cardID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, record, "rate card"); err != nil {
		h.Error(c, err)
		return
	}

	if err := req.Apply(record); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, record); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// Delete handles DELETE /rate-cards/:id - soft delete.
func (h *RateCardHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	cardID, ok := h.ParseID(c)
	if !ok {
		return
	}

	record, err := h.service.GetByID(ctx, cardID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, record, "rate card"); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, cardID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
