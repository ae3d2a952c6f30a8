// Package business provides the Business catalog.
// A business is the tenant: every scoped entity in the system carries
// a business_id pointing at exactly one row of this catalog.
package business

import (
	"context"

	"timebill/internal/core/apperror"
	"timebill/internal/core/entity"
	"timebill/internal/core/id"
)

// Status defines the lifecycle state of a tenant.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// valid statuses for validation
var validStatuses = map[Status]bool{
	StatusActive:   true,
	StatusInactive: true,
	StatusPending:  true,
}

// Business represents a tenant.
type Business struct {
	entity.Catalog

	// Status controls whether the tenant is operational
	Status Status `db:"status" json:"status"`

	// OwnerID references the user who owns the tenant (nullable until onboarding completes)
	OwnerID *id.ID `db:"owner_id" json:"ownerId,omitempty"`

	// ContactEmail is the primary contact address
	ContactEmail *string `db:"contact_email" json:"contactEmail,omitempty"`

	// LoginEnabled gates interactive sign-in for the tenant's users
	LoginEnabled bool `db:"login_enabled" json:"loginEnabled"`
}

// New creates a new Business in pending state with login enabled.
func New(code, name string) *Business {
	return &Business{
		Catalog:      entity.NewCatalog(code, name),
		Status:       StatusPending,
		LoginEnabled: true,
	}
}

// Validate implements Validatable interface.
func (b *Business) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}

	if b.Status == "" {
		b.Status = StatusPending
	}
	if !validStatuses[b.Status] {
		return apperror.NewValidation("invalid business status").
			WithDetail("field", "status").
			WithDetail("value", string(b.Status))
	}

	return nil
}

// IsActive reports whether the tenant is operational.
func (b *Business) IsActive() bool {
	return b.Status == StatusActive
}

// GetBusinessID lets a Business act as its own scope for access checks.
func (b *Business) GetBusinessID() string {
	return b.ID.String()
}

// Activate moves the tenant into the active state.
func (b *Business) Activate() {
	b.Status = StatusActive
}

// Deactivate moves the tenant into the inactive state.
func (b *Business) Deactivate() {
	b.Status = StatusInactive
}
