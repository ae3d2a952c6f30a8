// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	appctx "timebill/internal/core/context"
	"timebill/internal/core/id"
	"timebill/internal/core/security"
	"timebill/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseID parses the :id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context) (id.ID, bool) {
	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return entityID, true
}

// Actor extracts the authenticated actor, erroring when absent.
func (h *BaseHandler) Actor(c *gin.Context) (*security.Actor, bool) {
	actor := security.ActorFrom(c.Request.Context())
	if actor == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return nil, false
	}
	return actor, true
}

// ActorContext extracts the raw actor claims from the request context.
func (h *BaseHandler) ActorContext(c *gin.Context) *appctx.ActorContext {
	return appctx.GetActor(c.Request.Context())
}

// ResolveBusinessID picks the tenant for a create request: a global
// administrator may target any tenant via the request field, everyone
// else is pinned to their own.
func (h *BaseHandler) ResolveBusinessID(c *gin.Context, actor *security.Actor, requested string) (id.ID, bool) {
	if actor.IsSystemAdmin() {
		if requested == "" {
			h.Error(c, apperror.NewValidation("businessId is required").WithDetail("field", "businessId"))
			return id.Nil(), false
		}
		businessID, err := id.Parse(requested)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "businessId"))
			return id.Nil(), false
		}
		return businessID, true
	}

	businessID, err := id.Parse(actor.BusinessID)
	if err != nil {
		h.Error(c, apperror.NewForbidden("no business scope"))
		return id.Nil(), false
	}
	return businessID, true
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.OK(data))
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.OK(data))
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response without data.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.OKMessage(message))
}
