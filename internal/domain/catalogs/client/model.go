// Package client provides the Client catalog.
// Clients are the parties billed for consultant hours.
package client

import (
	"context"
	"regexp"

	"timebill/internal/core/apperror"
	"timebill/internal/core/entity"
	"timebill/internal/core/id"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Client represents a billed party.
type Client struct {
	entity.Catalog
	entity.BusinessScoped

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Email is the billing contact address
	Email *string `db:"email" json:"email,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Address is the billing address
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a new Client for the given tenant.
func New(code, name string, businessID id.ID) *Client {
	return &Client{
		Catalog:        entity.NewCatalog(code, name),
		BusinessScoped: entity.BusinessScoped{BusinessID: businessID},
	}
}

// Validate implements Validatable interface.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := c.ValidateBusiness(ctx); err != nil {
		return err
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", *c.Email)
	}

	return nil
}
