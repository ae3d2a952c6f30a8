package internalstaff

import (
	"context"

	"timebill/internal/core/id"
	"timebill/internal/domain"
)

// Repository defines the interface for InternalUser persistence.
type Repository interface {
	domain.CatalogRepository[*InternalUser]

	// ListByType retrieves internal users of one commission role within a tenant.
	ListByType(ctx context.Context, businessID id.ID, staffType StaffType) ([]*InternalUser, error)
}
