// Package internalstaff provides the InternalUser catalog.
// Internal users are non-login staff records (account managers,
// business-development managers, recruiters) that earn commissions
// on consultant hours.
package internalstaff

import (
	"context"

	"timebill/internal/core/apperror"
	"timebill/internal/core/entity"
	"timebill/internal/core/id"
	"timebill/internal/core/types"
)

// StaffType defines the commission role of an internal user.
type StaffType string

const (
	TypeAccountManager StaffType = "account_manager"
	TypeBizDevManager  StaffType = "bd_manager"
	TypeRecruiter      StaffType = "recruiter"
)

var validStaffTypes = map[StaffType]bool{
	TypeAccountManager: true,
	TypeBizDevManager:  true,
	TypeRecruiter:      true,
}

// RateType defines how a commission rate is declared.
// The calculation path applies every commission as a flat per-hour
// multiplier; the declared type is stored for display and export only.
type RateType string

const (
	RatePercentage RateType = "percentage"
	RateFixed      RateType = "fixed"
)

// Recurrence defines how often a commission applies.
type Recurrence string

const (
	RecurrenceOneTime   Recurrence = "one_time"
	RecurrenceRecurring Recurrence = "recurring"
)

// InternalUser represents a commissioned staff member.
type InternalUser struct {
	entity.Catalog
	entity.BusinessScoped

	// Type is the commission role
	Type StaffType `db:"type" json:"type"`

	// Email is the contact address (no login account attached)
	Email *string `db:"email" json:"email,omitempty"`

	// CommissionRate is the default commission for new rate card links
	CommissionRate types.Money `db:"commission_rate" json:"commissionRate"`

	// RateType declares percentage or fixed
	RateType RateType `db:"rate_type" json:"rateType"`

	// Recurrence declares one-time or recurring commission
	Recurrence Recurrence `db:"recurrence" json:"recurrence"`

	// RecurrenceMonth optionally pins a one-time commission to a month (1..12)
	RecurrenceMonth *int `db:"recurrence_month" json:"recurrenceMonth,omitempty"`
}

// New creates a new InternalUser for the given tenant.
func New(code, name string, businessID id.ID, staffType StaffType) *InternalUser {
	return &InternalUser{
		Catalog:        entity.NewCatalog(code, name),
		BusinessScoped: entity.BusinessScoped{BusinessID: businessID},
		Type:           staffType,
		RateType:       RatePercentage,
		Recurrence:     RecurrenceRecurring,
	}
}

// Validate implements Validatable interface.
func (u *InternalUser) Validate(ctx context.Context) error {
	if err := u.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := u.ValidateBusiness(ctx); err != nil {
		return err
	}

	if !validStaffTypes[u.Type] {
		return apperror.NewValidation("invalid staff type").
			WithDetail("field", "type").
			WithDetail("value", string(u.Type))
	}

	if u.RateType != RatePercentage && u.RateType != RateFixed {
		return apperror.NewValidation("invalid rate type").
			WithDetail("field", "rateType").
			WithDetail("value", string(u.RateType))
	}

	if u.Recurrence != RecurrenceOneTime && u.Recurrence != RecurrenceRecurring {
		return apperror.NewValidation("invalid recurrence").
			WithDetail("field", "recurrence").
			WithDetail("value", string(u.Recurrence))
	}

	if u.RecurrenceMonth != nil {
		if *u.RecurrenceMonth < 1 || *u.RecurrenceMonth > 12 {
			return apperror.NewValidation("recurrence month must be between 1 and 12").
				WithDetail("field", "recurrenceMonth").
				WithDetail("value", *u.RecurrenceMonth)
		}
		if u.Recurrence == RecurrenceRecurring {
			return apperror.NewValidation("recurrence month applies only to one-time commissions").
				WithDetail("field", "recurrenceMonth")
		}
	}

	if u.CommissionRate.IsNegative() {
		return apperror.NewValidation("commission rate cannot be negative").
			WithDetail("field", "commissionRate")
	}

	return nil
}
