package handlers

import (
	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/domain/auth"
	"timebill/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves authentication and account management.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginPayload{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserPayload(result.User),
	})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	businessID, err := id.Parse(req.BusinessID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "businessId"))
		return
	}

	user, err := h.service.Register(ctx, auth.RegisterRequest{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		BusinessID: businessID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.NewUserPayload(user))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	userID, err := id.Parse(actor.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid actor identity"))
		return
	}

	user, err := h.service.GetByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewUserPayload(user))
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, err := id.Parse(actor.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid actor identity"))
		return
	}

	if err := h.service.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "password changed")
}

// ListUsers handles GET /users. Requires the user management capability.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.UserListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := auth.UserFilter{
		Search:          query.Search,
		IncludeInactive: query.IncludeInactive,
		Limit:           query.Limit,
		Offset:          query.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	users, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListPayload{
		Items:      dto.NewUserPayloads(users),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// GetUser handles GET /users/:id.
func (h *AuthHandler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.ParseID(c)
	if !ok {
		return
	}

	user, err := h.service.GetByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewUserPayload(user))
}

// UpdateUser handles PUT /users/:id - roles, names and activity flag.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.GetByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.Roles != nil {
		user.Roles = req.Roles
	}
	user.IsActive = req.IsActive

	if err := h.service.Update(ctx, user); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewUserPayload(user))
}
