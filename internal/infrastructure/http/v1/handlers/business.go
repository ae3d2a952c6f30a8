package handlers

import (
	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"

	"timebill/internal/core/security"
	"timebill/internal/domain"
	"timebill/internal/domain/catalogs/business"
	"timebill/internal/infrastructure/http/v1/dto"
)

// BusinessHandler serves the tenant catalog. The catalog scopes on its
// own id column, so it does not fit the generic business_id handler.
type BusinessHandler struct {
	*BaseHandler
	service *business.Service
}

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(base *BaseHandler, service *business.Service) *BusinessHandler {
	return &BusinessHandler{BaseHandler: base, service: service}
}

// List handles GET /businesses. Tenant actors see only their own record.
func (h *BusinessHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"
	if !actor.IsSystemAdmin() {
		filter.Scope = squirrel.Eq{"id": actor.BusinessID}
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

// Get handles GET /businesses/:id.
func (h *BusinessHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	businessID, ok := h.ParseID(c)
	if !ok {
		return
	}

	record, err := h.service.GetByID(ctx, businessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireView(actor, record, "business"); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// Create handles POST /businesses. Route is system admin only.
func (h *BusinessHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBusinessRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record := req.ToEntity()
	if err := h.service.Create(ctx, record); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, record)
}

// Update handles PUT /businesses/:id.
func (h *BusinessHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	businessID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateBusinessRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.service.GetByID(ctx, businessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, record, "business"); err != nil {
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

// SetStatus handles POST /businesses/:id/status. Route is system admin only.
func (h *BusinessHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	businessID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetBusinessStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.service.SetStatus(ctx, businessID, business.Status(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// SetLoginEnabled handles POST /businesses/:id/login-enabled.
// Route is system admin only; disabling locks out the tenant's users.
func (h *BusinessHandler) SetLoginEnabled(c *gin.Context) {
	ctx := c.Request.Context()

	businessID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetLoginEnabledRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.service.SetLoginEnabled(ctx, businessID, req.Enabled)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// Delete handles DELETE /businesses/:id. Route is system admin only.
func (h *BusinessHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	businessID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, businessID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
