package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	"timebill/internal/core/security"
	"timebill/internal/domain/catalogs/client"
	"timebill/internal/domain/catalogs/holiday"
	"timebill/internal/domain/catalogs/internalstaff"
	"timebill/internal/infrastructure/http/v1/dto"
)

// NewClientHandler wires the generic catalog handler for clients.
func NewClientHandler(base *BaseHandler, service *client.Service) *CatalogHandler[*client.Client, dto.CreateClientRequest, dto.UpdateClientRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*client.Client, dto.CreateClientRequest, dto.UpdateClientRequest]{
		Service:    service.CatalogService,
		EntityName: "client",
		MapCreateDTO: func(c *gin.Context, actor *security.Actor, req dto.CreateClientRequest) (*client.Client, error) {
			businessID, ok := base.ResolveBusinessID(c, actor, req.BusinessID)
			if !ok {
				return nil, apperror.NewValidation("invalid business scope")
			}
			return req.ToEntity(businessID), nil
		},
		MapUpdateDTO: func(req dto.UpdateClientRequest, existing *client.Client) error {
			return req.Apply(existing)
		},
	})
}

// InternalStaffHandler adds the by-type listing on top of the generic CRUD.
type InternalStaffHandler struct {
	*CatalogHandler[*internalstaff.InternalUser, dto.CreateInternalUserRequest, dto.UpdateInternalUserRequest]
	service *internalstaff.Service
}

// NewInternalStaffHandler wires the internal staff handler.
func NewInternalStaffHandler(base *BaseHandler, service *internalstaff.Service) *InternalStaffHandler {
	generic := NewCatalogHandler(base, CatalogHandlerConfig[*internalstaff.InternalUser, dto.CreateInternalUserRequest, dto.UpdateInternalUserRequest]{
		Service:    service.CatalogService,
		EntityName: "internal user",
		MapCreateDTO: func(c *gin.Context, actor *security.Actor, req dto.CreateInternalUserRequest) (*internalstaff.InternalUser, error) {
			businessID, ok := base.ResolveBusinessID(c, actor, req.BusinessID)
			if !ok {
				return nil, apperror.NewValidation("invalid business scope")
			}
			return req.ToEntity(businessID), nil
		},
		MapUpdateDTO: func(req dto.UpdateInternalUserRequest, existing *internalstaff.InternalUser) error {
			return req.Apply(existing)
		},
	})
	return &InternalStaffHandler{CatalogHandler: generic, service: service}
}

// ListByType handles GET /internal-users/by-type/:type.
func (h *InternalStaffHandler) ListByType(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	businessID, ok := h.ResolveBusinessID(c, actor, c.Query("businessId"))
	if !ok {
		return
	}

	staffType := internalstaff.StaffType(c.Param("type"))
	records, err := h.service.ListByType(ctx, businessID, staffType)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, records)
}

// HolidayHandler adds the calendar-year listing on top of the generic CRUD.
type HolidayHandler struct {
	*CatalogHandler[*holiday.Holiday, dto.CreateHolidayRequest, dto.UpdateHolidayRequest]
	service *holiday.Service
}

// NewHolidayHandler wires the holiday handler.
func NewHolidayHandler(base *BaseHandler, service *holiday.Service) *HolidayHandler {
	generic := NewCatalogHandler(base, CatalogHandlerConfig[*holiday.Holiday, dto.CreateHolidayRequest, dto.UpdateHolidayRequest]{
		Service:    service.CatalogService,
		EntityName: "holiday",
		MapCreateDTO: func(c *gin.Context, actor *security.Actor, req dto.CreateHolidayRequest) (*holiday.Holiday, error) {
			businessID, ok := base.ResolveBusinessID(c, actor, req.BusinessID)
			if !ok {
				return nil, apperror.NewValidation("invalid business scope")
			}
			return req.ToEntity(businessID), nil
		},
		MapUpdateDTO: func(req dto.UpdateHolidayRequest, existing *holiday.Holiday) error {
			return req.Apply(existing)
		},
	})
	return &HolidayHandler{CatalogHandler: generic, service: service}
}

// ListByYear handles GET /holidays/by-year/:year.
func (h *HolidayHandler) ListByYear(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	businessID, ok := h.ResolveBusinessID(c, actor, c.Query("businessId"))
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		h.Error(c, apperror.NewValidation("invalid year").WithDetail("field", "year"))
		return
	}

	records, err := h.service.ListByYear(ctx, businessID, year)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, records)
}
