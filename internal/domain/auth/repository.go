package auth

import (
	"context"

	"github.com/Masterminds/squirrel"

	"timebill/internal/core/id"
)

// UserFilter narrows user list queries.
type UserFilter struct {
	Search string

	// Scope restricts rows to a tenant (see security.ScopeByBusiness)
	Scope squirrel.Sqlizer

	IncludeInactive bool

	Limit  int
	Offset int
}

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves user by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates user data (with optimistic locking).
	Update(ctx context.Context, user *User) error

	// Delete soft-deletes a user.
	Delete(ctx context.Context, userID id.ID) error

	// List retrieves users with filtering.
	List(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	// ExistsByEmail checks if an email is already registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
