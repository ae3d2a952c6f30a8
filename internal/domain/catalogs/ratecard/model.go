// Package ratecard provides the RateCard catalog.
// A rate card is the contract record for a consultant within a tenant:
// billing and pay rates, payroll classification, and the commission
// links to internal staff. Exactly one card per (user, business) pair
// may be active at a time.
package ratecard

import (
	"context"

	"timebill/internal/core/apperror"
	"timebill/internal/core/entity"
	"timebill/internal/core/id"
	"timebill/internal/core/types"
	"timebill/internal/domain/catalogs/internalstaff"
	"timebill/internal/domain/margin"
)

// CommissionLink ties one internal staff member to the card.
// Commission is applied as a flat per-hour multiplier by the margin
// calculator; RateType is stored for display and export only.
type CommissionLink struct {
	StaffID    *id.ID                 `json:"staffId,omitempty"`
	Commission types.Money            `json:"commission"`
	RateType   internalstaff.RateType `json:"rateType"`
	Recurring  bool                   `json:"recurring"`

	// CountOn accumulates commission × hours per created timesheet.
	// Mutated under a row lock; see Service.ApplyCountOn.
	CountOn types.Money `json:"countOn"`
}

// RateCard represents the active contract for a consultant.
type RateCard struct {
	entity.Catalog
	entity.BusinessScoped

	// UserID is the consultant this card belongs to
	UserID id.ID `db:"user_id" json:"userId"`

	// Active marks the card currently in effect for (user, business)
	Active bool `db:"active" json:"active"`

	// ClientRate is the hourly rate billed to the client
	ClientRate types.Money `db:"client_rate" json:"clientRate"`

	// ConsultantRate is the hourly rate paid to the consultant.
	// Canonical name for what older imports call other_rate.
	ConsultantRate types.Money `db:"consultant_rate" json:"consultantRate"`

	// W2Rate is the payroll rate for W2 classification (zero means C2C)
	W2Rate types.Money `db:"w2_rate" json:"w2Rate"`

	// PtaxPercent is the payroll tax percentage applied on the W2 branch
	PtaxPercent types.Money `db:"ptax_percent" json:"ptaxPercent"`

	// C2CRate is the corp-to-corp rate used when W2Rate is zero
	C2CRate types.Money `db:"c2c_rate" json:"c2cRate"`

	// Commission links, one per internal staff role

	AccountManagerID         *id.ID                 `db:"account_manager_id" json:"accountManagerId,omitempty"`
	AccountManagerCommission types.Money            `db:"account_manager_commission" json:"accountManagerCommission"`
	AccountManagerRateType   internalstaff.RateType `db:"account_manager_rate_type" json:"accountManagerRateType"`
	AccountManagerRecurring  bool                   `db:"account_manager_recurring" json:"accountManagerRecurring"`
	AccountManagerCountOn    types.Money            `db:"account_manager_count_on" json:"accountManagerCountOn"`

	BizDevManagerID  *id.ID                 `db:"bd_manager_id" json:"bizDevManagerId,omitempty"`
	BizDevCommission types.Money            `db:"bd_commission" json:"bizDevCommission"`
	BizDevRateType   internalstaff.RateType `db:"bd_rate_type" json:"bizDevRateType"`
	BizDevRecurring  bool                   `db:"bd_recurring" json:"bizDevRecurring"`
	BizDevCountOn    types.Money            `db:"bd_count_on" json:"bizDevCountOn"`

	RecruiterID         *id.ID                 `db:"recruiter_id" json:"recruiterId,omitempty"`
	RecruiterCommission types.Money            `db:"recruiter_commission" json:"recruiterCommission"`
	RecruiterRateType   internalstaff.RateType `db:"recruiter_rate_type" json:"recruiterRateType"`
	RecruiterRecurring  bool                   `db:"recruiter_recurring" json:"recruiterRecurring"`
	RecruiterCountOn    types.Money            `db:"recruiter_count_on" json:"recruiterCountOn"`
}

// New creates a new active RateCard for the given consultant.
func New(businessID, userID id.ID) *RateCard {
	return &RateCard{
		Catalog:        entity.NewCatalog("", ""),
		BusinessScoped: entity.BusinessScoped{BusinessID: businessID},
		UserID:         userID,
		Active:         true,
	}
}

// Validate implements Validatable interface.
func (rc *RateCard) Validate(ctx context.Context) error {
	if err := rc.ValidateBusiness(ctx); err != nil {
		return err
	}

	if id.IsNil(rc.UserID) {
		return apperror.NewValidation("user is required").
			WithDetail("field", "userId")
	}

	for field, v := range map[string]types.Money{
		"clientRate":     rc.ClientRate,
		"consultantRate": rc.ConsultantRate,
		"w2Rate":         rc.W2Rate,
		"ptaxPercent":    rc.PtaxPercent,
		"c2cRate":        rc.C2CRate,
	} {
		if v.IsNegative() {
			return apperror.NewValidation("rate cannot be negative").
				WithDetail("field", field)
		}
	}

	for field, v := range map[string]types.Money{
		"accountManagerCommission": rc.AccountManagerCommission,
		"bizDevCommission":         rc.BizDevCommission,
		"recruiterCommission":      rc.RecruiterCommission,
	} {
		if v.IsNegative() {
			return apperror.NewValidation("commission cannot be negative").
				WithDetail("field", field)
		}
	}

	return nil
}

// IsW2 reports whether the card uses the W2 payroll branch.
func (rc *RateCard) IsW2() bool {
	return rc.W2Rate.IsPositive()
}

// MarginInputs converts the card into the calculator's rate structure.
func (rc *RateCard) MarginInputs() margin.RateCard {
	return margin.RateCard{
		ClientRate:               rc.ClientRate,
		PayRate:                  rc.ConsultantRate,
		W2Rate:                   rc.W2Rate,
		PtaxPercent:              rc.PtaxPercent,
		C2CRate:                  rc.C2CRate,
		AccountManagerCommission: rc.AccountManagerCommission,
		BizDevCommission:         rc.BizDevCommission,
		RecruiterCommission:      rc.RecruiterCommission,
	}
}

// ApplyCountOn records commission × hours per commission role.
// Called on timesheet creation; the caller must hold a row lock on the card.
func (rc *RateCard) ApplyCountOn(totalHours types.Hours) {
	rc.AccountManagerCountOn = rc.AccountManagerCountOn.Add(rc.AccountManagerCommission.Mul(totalHours))
	rc.BizDevCountOn = rc.BizDevCountOn.Add(rc.BizDevCommission.Mul(totalHours))
	rc.RecruiterCountOn = rc.RecruiterCountOn.Add(rc.RecruiterCommission.Mul(totalHours))
}

// AccountManagerLink returns the account manager commission link.
func (rc *RateCard) AccountManagerLink() CommissionLink {
	return CommissionLink{
		StaffID:    rc.AccountManagerID,
		Commission: rc.AccountManagerCommission,
		RateType:   rc.AccountManagerRateType,
		Recurring:  rc.AccountManagerRecurring,
		CountOn:    rc.AccountManagerCountOn,
	}
}

// BizDevLink returns the business-development commission link.
func (rc *RateCard) BizDevLink() CommissionLink {
	return CommissionLink{
		StaffID:    rc.BizDevManagerID,
		Commission: rc.BizDevCommission,
		RateType:   rc.BizDevRateType,
		Recurring:  rc.BizDevRecurring,
		CountOn:    rc.BizDevCountOn,
	}
}

// RecruiterLink returns the recruiter commission link.
func (rc *RateCard) RecruiterLink() CommissionLink {
	return CommissionLink{
		StaffID:    rc.RecruiterID,
		Commission: rc.RecruiterCommission,
		RateType:   rc.RecruiterRateType,
		Recurring:  rc.RecruiterRecurring,
		CountOn:    rc.RecruiterCountOn,
	}
}
