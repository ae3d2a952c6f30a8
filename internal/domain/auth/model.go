// Package auth provides authentication domain logic: user accounts,
// password verification and JWT issuance.
package auth

import (
	"context"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/security"
)

// User represents a login account.
type User struct {
	ID           id.ID  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	FirstName    string `db:"first_name" json:"firstName,omitempty"`
	LastName     string `db:"last_name" json:"lastName,omitempty"`

	// BusinessID is nil only for the global System Admin
	BusinessID *id.ID `db:"business_id" json:"businessId,omitempty"`

	// Roles holds the closed role set as raw claim strings
	Roles []string `db:"roles" json:"roles"`

	IsActive            bool       `db:"is_active" json:"isActive"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`

	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
	Version   int        `db:"version" json:"version"`
}

// NewUser creates a new active user for a tenant.
func NewUser(email, passwordHash string, businessID *id.ID, roles ...string) *User {
	now := time.Now().UTC()
	if len(roles) == 0 {
		roles = []string{string(security.RoleUser)}
	}
	return &User{
		ID:           id.New(),
		Email:        email,
		PasswordHash: passwordHash,
		BusinessID:   businessID,
		Roles:        roles,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if u.BusinessID == nil && !u.HasGlobalRole() {
		return apperror.NewValidation("business is required for tenant users").
			WithDetail("field", "businessId")
	}
	for _, r := range u.Roles {
		if _, ok := security.ParseRole(r); !ok {
			return apperror.NewValidation("unknown role").
				WithDetail("field", "roles").
				WithDetail("value", r)
		}
	}
	return nil
}

// GetBusinessID implements the access predicate's scope interface.
func (u *User) GetBusinessID() string {
	if u.BusinessID == nil {
		return ""
	}
	return u.BusinessID.String()
}

// HasGlobalRole implements security.PrivilegedAccount: a tenant admin
// may never modify an account carrying the global role.
func (u *User) HasGlobalRole() bool {
	for _, r := range u.Roles {
		if r == string(security.RoleSystemAdmin) {
			return true
		}
	}
	return false
}

// HasRole checks if the user holds a given role.
func (u *User) HasRole(role security.Role) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// IsLocked returns true if the account is locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if the user may sign in.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failed login counter.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
