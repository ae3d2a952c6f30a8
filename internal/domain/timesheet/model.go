// Package timesheet provides the Timesheet document and its lifecycle.
// A timesheet records a consultant's hours for a period, moves through
// draft, submitted and approved/rejected states, and carries the margin
// figures computed from the consultant's rate card on every transition.
package timesheet

import (
	"context"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/entity"
	"timebill/internal/core/id"
	"timebill/internal/core/types"
	"timebill/internal/domain/margin"
)

// Status represents the lifecycle state of a timesheet.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// allowedTransitions defines the state machine.
// approved is terminal; rejected sheets may be resubmitted.
var allowedTransitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusRejected:  {StatusSubmitted},
	StatusApproved:  {},
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", apperror.NewValidation("invalid timesheet status").
			WithDetail("field", "status").
			WithDetail("value", s)
	}
}

// CanTransition reports whether from → to is an allowed transition.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Entry represents one day of recorded hours.
type Entry struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	// EntryDate is the calendar day (unique within the sheet)
	EntryDate time.Time `db:"entry_date" json:"entryDate"`

	DailyHours    types.Hours `db:"daily_hours" json:"dailyHours"`
	ExtraHours    types.Hours `db:"extra_hours" json:"extraHours"`
	VacationHours types.Hours `db:"vacation_hours" json:"vacationHours"`

	Note *string `db:"note" json:"note,omitempty"`

	// ClientRateSnapshot captures the billing rate at entry time
	ClientRateSnapshot types.Money `db:"client_rate_snapshot" json:"clientRateSnapshot"`
}

// WorkedHours returns the hours counting toward the sheet total.
// Vacation hours are tracked but excluded from totals.
func (e Entry) WorkedHours() types.Hours {
	return e.DailyHours.Add(e.ExtraHours)
}

// Timesheet represents the hours document for one consultant and period.
type Timesheet struct {
	entity.BaseDocument
	entity.BusinessScoped

	// Number is the human-readable document number (e.g., TS-2026-00012)
	Number string `db:"number" json:"number"`

	// UserID is the consultant who worked the hours
	UserID id.ID `db:"user_id" json:"userId"`

	// RateCardID snapshots the contract in effect at creation
	RateCardID id.ID `db:"rate_card_id" json:"rateCardId"`

	// ClientID is the billed party
	ClientID id.ID `db:"client_id" json:"clientId"`

	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`

	Status Status `db:"status" json:"status"`

	// TotalHours is the sum of entry daily+extra hours
	TotalHours types.Hours `db:"total_hours" json:"totalHours"`

	// Margin figures, recomputed on every status transition
	GrossMargin     types.Money `db:"gross_margin" json:"grossMargin"`
	Expense         types.Money `db:"expense" json:"expense"`
	InternalExpense types.Money `db:"internal_expense" json:"internalExpense"`
	NetMargin       types.Money `db:"net_margin" json:"netMargin"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	ApprovedBy  *id.ID     `db:"approved_by" json:"approvedBy,omitempty"`

	// Table part: daily entries
	Entries []Entry `db:"-" json:"entries"`
}

// New creates a new draft timesheet.
func New(businessID, userID, clientID id.ID, start, end time.Time) *Timesheet {
	return &Timesheet{
		BaseDocument:   entity.NewBaseDocument(),
		BusinessScoped: entity.BusinessScoped{BusinessID: businessID},
		UserID:         userID,
		ClientID:       clientID,
		StartDate:      start,
		EndDate:        end,
		Status:         StatusDraft,
		Entries:        make([]Entry, 0),
	}
}

// AddEntry appends a day of hours and recalculates the total.
func (t *Timesheet) AddEntry(date time.Time, daily, extra, vacation types.Hours, note *string, clientRate types.Money) {
	t.Entries = append(t.Entries, Entry{
		LineID:             id.New(),
		EntryDate:          date,
		DailyHours:         daily,
		ExtraHours:         extra,
		VacationHours:      vacation,
		Note:               note,
		ClientRateSnapshot: clientRate,
	})
	t.RecalculateTotals()
}

// ReplaceEntries swaps the entry set wholesale and recalculates the total.
func (t *Timesheet) ReplaceEntries(entries []Entry) {
	for i := range entries {
		if id.IsNil(entries[i].LineID) {
			entries[i].LineID = id.New()
		}
	}
	t.Entries = entries
	t.RecalculateTotals()
}

// RecalculateTotals recomputes total_hours from the entry set.
func (t *Timesheet) RecalculateTotals() {
	total := types.Zero()
	for _, e := range t.Entries {
		total = total.Add(e.WorkedHours())
	}
	t.TotalHours = total
}

// ApplyMargins stores the computed margin figures on the document.
func (t *Timesheet) ApplyMargins(m margin.Margins) {
	t.GrossMargin = m.GrossMargin
	t.Expense = m.Expense
	t.InternalExpense = m.InternalExpense
	t.NetMargin = m.NetMargin
}

// IsEditable reports whether the entry set may still be changed.
func (t *Timesheet) IsEditable() bool {
	return t.Status == StatusDraft || t.Status == StatusRejected
}

// IsDeletable reports whether the document may be hard-deleted.
func (t *Timesheet) IsDeletable() bool {
	return t.Status == StatusDraft || t.Status == StatusRejected
}

// Transition moves the document to the next state, stamping the
// submitted/approved fields. Margin recomputation is the service's job.
func (t *Timesheet) Transition(to Status, actorID string, now time.Time) error {
	if !CanTransition(t.Status, to) {
		return apperror.NewInvalidStateTransition(string(t.Status), string(to))
	}

	switch to {
	case StatusSubmitted:
		t.SubmittedAt = &now
	case StatusApproved:
		t.ApprovedAt = &now
		if actorID != "" {
			if approver, err := id.Parse(actorID); err == nil {
				t.ApprovedBy = &approver
			}
		}
	}

	t.Status = to
	return nil
}

// Validate implements entity.Validatable.
func (t *Timesheet) Validate(ctx context.Context) error {
	if err := t.ValidateBusiness(ctx); err != nil {
		return err
	}

	if id.IsNil(t.UserID) {
		return apperror.NewValidation("user is required").
			WithDetail("field", "userId")
	}
	if id.IsNil(t.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return apperror.NewValidation("period is required").
			WithDetail("field", "startDate")
	}
	if t.EndDate.Before(t.StartDate) {
		return apperror.NewValidation("end date must not precede start date").
			WithDetail("field", "endDate")
	}

	if len(t.Entries) == 0 {
		return apperror.NewValidation("at least one entry is required").
			WithDetail("field", "entries")
	}

	seen := make(map[string]bool, len(t.Entries))
	for i, e := range t.Entries {
		day := e.EntryDate.Format("2006-01-02")
		if seen[day] {
			return apperror.NewValidation("duplicate entry date").
				WithDetail("field", "entries").
				WithDetail("line", i+1).
				WithDetail("date", day)
		}
		seen[day] = true

		if e.DailyHours.IsNegative() || e.ExtraHours.IsNegative() || e.VacationHours.IsNegative() {
			return apperror.NewValidation("hours cannot be negative").
				WithDetail("field", "entries").
				WithDetail("line", i+1)
		}
	}

	return nil
}
