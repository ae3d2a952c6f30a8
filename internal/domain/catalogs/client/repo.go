package client

import (
	"context"

	"timebill/internal/core/id"
	"timebill/internal/domain"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	domain.CatalogRepository[*Client]

	// FindByName retrieves a client by exact name within a tenant.
	FindByName(ctx context.Context, businessID id.ID, name string) (*Client, error)
}
