package dto

import (
	"time"

	"timebill/internal/domain/auth"
)

// LoginRequest for user authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginPayload is the successful authentication response.
type LoginPayload struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserPayload `json:"user"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	BusinessID string `json:"businessId"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UpdateUserRequest edits a managed account.
type UpdateUserRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
	IsActive  bool     `json:"isActive"`
}

// UserListQuery holds user list query parameters.
type UserListQuery struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"includeInactive"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

// UserPayload is the public view of a user account.
type UserPayload struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	BusinessID  *string    `json:"businessId,omitempty"`
	Roles       []string   `json:"roles"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewUserPayload maps a user to its public view.
func NewUserPayload(u *auth.User) UserPayload {
	return UserPayload{
		ID:          u.ID.String(),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		BusinessID:  optID(u.BusinessID),
		Roles:       u.Roles,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NewUserPayloads maps a user list.
func NewUserPayloads(users []*auth.User) []UserPayload {
	out := make([]UserPayload, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserPayload(u))
	}
	return out
}
