package holiday

import (
	"context"

	"timebill/internal/core/id"
	"timebill/internal/domain"
)

// Repository defines the interface for Holiday persistence.
type Repository interface {
	domain.CatalogRepository[*Holiday]

	// ListByYear retrieves holidays of one calendar year within a tenant.
	ListByYear(ctx context.Context, businessID id.ID, year int) ([]*Holiday, error)
}
