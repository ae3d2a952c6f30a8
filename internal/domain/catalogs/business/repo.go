package business

import (
	"context"

	"timebill/internal/domain"
)

// Repository defines the interface for Business persistence.
type Repository interface {
	domain.CatalogRepository[*Business]

	// FindByName retrieves a business by exact name.
	FindByName(ctx context.Context, name string) (*Business, error)
}
