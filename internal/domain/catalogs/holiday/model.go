// Package holiday provides the Holiday catalog used for calendar display.
package holiday

import (
	"context"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/entity"
	"timebill/internal/core/id"
)

// Holiday represents a non-working day within a tenant's calendar.
type Holiday struct {
	entity.Catalog
	entity.BusinessScoped

	// Date is the calendar day (time component ignored)
	Date time.Time `db:"date" json:"date"`
}

// New creates a new Holiday for the given tenant.
func New(name string, businessID id.ID, date time.Time) *Holiday {
	return &Holiday{
		Catalog:        entity.NewCatalog("", name),
		BusinessScoped: entity.BusinessScoped{BusinessID: businessID},
		Date:           date,
	}
}

// Validate implements Validatable interface.
func (h *Holiday) Validate(ctx context.Context) error {
	if err := h.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := h.ValidateBusiness(ctx); err != nil {
		return err
	}
	if h.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
