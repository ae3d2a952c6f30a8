package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	"timebill/internal/core/entity"
	"timebill/internal/core/security"
	"timebill/internal/domain"
	domainFilter "timebill/internal/domain/filter"
	"timebill/internal/infrastructure/http/v1/dto"
)

// CatalogEntity is the constraint for entities served by the generic
// catalog handler: validatable and tenant-scoped for access checks.
type CatalogEntity interface {
	entity.Validatable
	entity.IBusinessScoped
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
// Tenant isolation is logical: list queries carry the actor's scope and
// single-record operations run through the access predicates.
type CatalogHandler[T CatalogEntity, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    *domain.CatalogService[T]
	entityName string

	// Mapper functions
	mapCreateDTO func(c *gin.Context, actor *security.Actor, req CreateDTO) (T, error)
	mapUpdateDTO func(req UpdateDTO, existing T) error
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T CatalogEntity, CreateDTO any, UpdateDTO any] struct {
	Service      *domain.CatalogService[T]
	EntityName   string
	MapCreateDTO func(c *gin.Context, actor *security.Actor, req CreateDTO) (T, error)
	MapUpdateDTO func(req UpdateDTO, existing T) error
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T CatalogEntity, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	// Parse filter from query params
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"
	filter.Scope = security.ScopeByBusiness(actor)

	if filterJSON := c.Query("filter"); filterJSON != "" {
		var advFilters []domainFilter.Item
		if err := json.Unmarshal([]byte(filterJSON), &advFilters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return
		}
		filter.AdvancedFilters = advFilters
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

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	record, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireView(actor, record, h.entityName); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.mapCreateDTO(c, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, record, h.entityName); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, record); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, record)
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, existing, h.entityName); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.mapUpdateDTO(req, existing); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, existing); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, existing)
}

// Delete handles DELETE /{entity}/:id - soft delete entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, existing, h.entityName); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// SetDeletionMark handles POST /{entity}/:id/deletion-mark
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) SetDeletionMark(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := security.RequireModify(actor, existing, h.entityName); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.SetDeletionMark(ctx, entityID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}
