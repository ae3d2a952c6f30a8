package dto

import (
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/types"
	"timebill/internal/domain/catalogs/business"
	"timebill/internal/domain/catalogs/client"
	"timebill/internal/domain/catalogs/holiday"
	"timebill/internal/domain/catalogs/internalstaff"
	"timebill/internal/domain/catalogs/ratecard"
)

// parseOptionalID converts a nullable string field into an ID.
func parseOptionalID(s *string, field string) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := id.Parse(*s)
	if err != nil {
		return nil, apperror.NewValidation("invalid id").WithDetail("field", field)
	}
	return &v, nil
}

// parseRequiredID converts a string field into an ID.
func parseRequiredID(s, field string) (id.ID, error) {
	v, err := id.Parse(s)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id").WithDetail("field", field)
	}
	return v, nil
}

// --- Business ---

type CreateBusinessRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name" binding:"required"`
	ContactEmail *string `json:"contactEmail"`
}

func (r *CreateBusinessRequest) ToEntity() *business.Business {
	b := business.New(r.Code, r.Name)
	b.ContactEmail = r.ContactEmail
	return b
}

type UpdateBusinessRequest struct {
	Name         string  `json:"name" binding:"required"`
	ContactEmail *string `json:"contactEmail"`
}

func (r *UpdateBusinessRequest) Apply(b *business.Business) error {
	b.Name = r.Name
	b.ContactEmail = r.ContactEmail
	return nil
}

type SetBusinessStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetLoginEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// --- Client ---

type CreateClientRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	BusinessID    string  `json:"businessId"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

func (r *CreateClientRequest) ToEntity(businessID id.ID) *client.Client {
	c := client.New(r.Code, r.Name, businessID)
	c.ContactPerson = r.ContactPerson
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	return c
}

type UpdateClientRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

func (r *UpdateClientRequest) Apply(c *client.Client) error {
	c.Name = r.Name
	c.ContactPerson = r.ContactPerson
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	return nil
}

// --- Internal staff ---

type CreateInternalUserRequest struct {
	Code            string      `json:"code"`
	Name            string      `json:"name" binding:"required"`
	BusinessID      string      `json:"businessId"`
	Type            string      `json:"type" binding:"required"`
	Email           *string     `json:"email"`
	CommissionRate  types.Money `json:"commissionRate"`
	RateType        string      `json:"rateType"`
	Recurrence      string      `json:"recurrence"`
	RecurrenceMonth *int        `json:"recurrenceMonth"`
}

func (r *CreateInternalUserRequest) ToEntity(businessID id.ID) *internalstaff.InternalUser {
	u := internalstaff.New(r.Code, r.Name, businessID, internalstaff.StaffType(r.Type))
	u.Email = r.Email
	u.CommissionRate = r.CommissionRate
	if r.RateType != "" {
		u.RateType = internalstaff.RateType(r.RateType)
	}
	if r.Recurrence != "" {
		u.Recurrence = internalstaff.Recurrence(r.Recurrence)
	}
	u.RecurrenceMonth = r.RecurrenceMonth
	return u
}

type UpdateInternalUserRequest struct {
	Name            string      `json:"name" binding:"required"`
	Type            string      `json:"type" binding:"required"`
	Email           *string     `json:"email"`
	CommissionRate  types.Money `json:"commissionRate"`
	RateType        string      `json:"rateType"`
	Recurrence      string      `json:"recurrence"`
	RecurrenceMonth *int        `json:"recurrenceMonth"`
}

func (r *UpdateInternalUserRequest) Apply(u *internalstaff.InternalUser) error {
	u.Name = r.Name
	u.Type = internalstaff.StaffType(r.Type)
	u.Email = r.Email
	u.CommissionRate = r.CommissionRate
	if r.RateType != "" {
		u.RateType = internalstaff.RateType(r.RateType)
	}
	if r.Recurrence != "" {
		u.Recurrence = internalstaff.Recurrence(r.Recurrence)
	}
	u.RecurrenceMonth = r.RecurrenceMonth
	return nil
}

// --- Rate card ---

// CommissionLinkRequest carries one internal staff commission link.
type CommissionLinkRequest struct {
	StaffID    *string     `json:"staffId"`
	Commission types.Money `json:"commission"`
	RateType   string      `json:"rateType"`
	Recurring  bool        `json:"recurring"`
}

type CreateRateCardRequest struct {
	BusinessID     string      `json:"businessId"`
	UserID         string      `json:"userId" binding:"required"`
	ClientRate     types.Money `json:"clientRate"`
	ConsultantRate types.Money `json:"consultantRate"`

	// OtherRate is the deprecated alias for consultantRate kept for
	// older imports; consultantRate wins when both are present.
	OtherRate *types.Money `json:"otherRate"`

	W2Rate      types.Money `json:"w2Rate"`
	PtaxPercent types.Money `json:"ptaxPercent"`
	C2CRate     types.Money `json:"c2cRate"`

	AccountManager *CommissionLinkRequest `json:"accountManager"`
	BizDevManager  *CommissionLinkRequest `json:"bizDevManager"`
	Recruiter      *CommissionLinkRequest `json:"recruiter"`
}

func (r *CreateRateCardRequest) ToEntity(businessID id.ID) (*ratecard.RateCard, error) {
	userID, err := parseRequiredID(r.UserID, "userId")
	if err != nil {
		return nil, err
	}

	rc := ratecard.New(businessID, userID)
	rc.ClientRate = r.ClientRate
	rc.ConsultantRate = r.ConsultantRate
	if rc.ConsultantRate.IsZero() && r.OtherRate != nil {
		rc.ConsultantRate = *r.OtherRate
	}
	rc.W2Rate = r.W2Rate
	rc.PtaxPercent = r.PtaxPercent
	rc.C2CRate = r.C2CRate

	if err := applyCommissionLinks(rc, r.AccountManager, r.BizDevManager, r.Recruiter); err != nil {
		return nil, err
	}
	return rc, nil
}

type UpdateRateCardRequest struct {
	ClientRate     types.Money `json:"clientRate"`
	ConsultantRate types.Money `json:"consultantRate"`
	W2Rate         types.Money `json:"w2Rate"`
	PtaxPercent    types.Money `json:"ptaxPercent"`
	C2CRate        types.Money `json:"c2cRate"`
	Active         bool        `json:"active"`

	AccountManager *CommissionLinkRequest `json:"accountManager"`
	BizDevManager  *CommissionLinkRequest `json:"bizDevManager"`
	Recruiter      *CommissionLinkRequest `json:"recruiter"`
}

func (r *UpdateRateCardRequest) Apply(rc *ratecard.RateCard) error {
	rc.ClientRate = r.ClientRate
	rc.ConsultantRate = r.ConsultantRate
	rc.W2Rate = r.W2Rate
	rc.PtaxPercent = r.PtaxPercent
	rc.C2CRate = r.C2CRate
	rc.Active = r.Active
	return applyCommissionLinks(rc, r.AccountManager, r.BizDevManager, r.Recruiter)
}

// applyCommissionLinks copies the three role links onto the card.
// CountOn accumulators are never set from a request.
func applyCommissionLinks(rc *ratecard.RateCard, am, bd, rec *CommissionLinkRequest) error {
	if am != nil {
		staffID, err := parseOptionalID(am.StaffID, "accountManager.staffId")
		if err != nil {
			return err
		}
		rc.AccountManagerID = staffID
		rc.AccountManagerCommission = am.Commission
		rc.AccountManagerRateType = internalstaff.RateType(am.RateType)
		rc.AccountManagerRecurring = am.Recurring
	}
	if bd != nil {
		staffID, err := parseOptionalID(bd.StaffID, "bizDevManager.staffId")
		if err != nil {
			return err
		}
		rc.BizDevManagerID = staffID
		rc.BizDevCommission = bd.Commission
		rc.BizDevRateType = internalstaff.RateType(bd.RateType)
		rc.BizDevRecurring = bd.Recurring
	}
	if rec != nil {
		staffID, err := parseOptionalID(rec.StaffID, "recruiter.staffId")
		if err != nil {
			return err
		}
		rc.RecruiterID = staffID
		rc.RecruiterCommission = rec.Commission
		rc.RecruiterRateType = internalstaff.RateType(rec.RateType)
		rc.RecruiterRecurring = rec.Recurring
	}
	return nil
}

// --- Holiday ---

type CreateHolidayRequest struct {
	Name       string    `json:"name" binding:"required"`
	BusinessID string    `json:"businessId"`
	Date       time.Time `json:"date" binding:"required"`
}

func (r *CreateHolidayRequest) ToEntity(businessID id.ID) *holiday.Holiday {
	return holiday.New(r.Name, businessID, r.Date)
}

type UpdateHolidayRequest struct {
	Name string    `json:"name" binding:"required"`
	Date time.Time `json:"date" binding:"required"`
}

func (r *UpdateHolidayRequest) Apply(h *holiday.Holiday) error {
	h.Name = r.Name
	h.Date = r.Date
	return nil
}
