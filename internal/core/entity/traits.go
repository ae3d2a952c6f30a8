package entity

import (
	"context"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
)

// BusinessScoped is a trait for entities owned by exactly one tenant.
// Every tenant-scoped entity must carry a business_id matching its owner.
type BusinessScoped struct {
	// BusinessID is the owning tenant
	BusinessID id.ID `db:"business_id" json:"businessId"`
}

// ValidateBusiness ensures the tenant reference is set.
func (b *BusinessScoped) ValidateBusiness(ctx context.Context) error {
	if id.IsNil(b.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	return nil
}

// GetBusinessID returns the owning tenant (useful for interfaces).
func (b *BusinessScoped) GetBusinessID() string {
	if id.IsNil(b.BusinessID) {
		return ""
	}
	return b.BusinessID.String()
}

// IBusinessScoped is the interface consulted by the access predicate.
// A resource that cannot produce a business scope is treated as inaccessible.
type IBusinessScoped interface {
	GetBusinessID() string
}
