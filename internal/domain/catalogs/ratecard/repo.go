package ratecard

import (
	"context"

	"timebill/internal/core/id"
	"timebill/internal/domain"
)

// Repository defines the interface for RateCard persistence.
type Repository interface {
	domain.CatalogRepository[*RateCard]

	// FindActiveByUser retrieves the single active card for (user, business).
	FindActiveByUser(ctx context.Context, businessID, userID id.ID) (*RateCard, error)

	// ListByUser retrieves all cards for a consultant within a tenant.
	ListByUser(ctx context.Context, businessID, userID id.ID) ([]*RateCard, error)

	// GetForUpdate retrieves a card with a row lock.
	// Used to serialize count-on accumulation under concurrent timesheet creation.
	GetForUpdate(ctx context.Context, id id.ID) (*RateCard, error)
}
