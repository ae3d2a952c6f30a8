package dto

import (
	"time"

	"timebill/internal/core/id"
	"timebill/internal/core/types"
	"timebill/internal/domain/timesheet"
)

// EntryRequest carries one day of recorded hours.
type EntryRequest struct {
	EntryDate     time.Time   `json:"entryDate" binding:"required"`
	DailyHours    types.Hours `json:"dailyHours"`
	ExtraHours    types.Hours `json:"extraHours"`
	VacationHours types.Hours `json:"vacationHours"`
	Note          *string     `json:"note"`
}

// ToEntry converts the request row. LineID and the rate snapshot are
// assigned by the domain layer.
func (r EntryRequest) ToEntry() timesheet.Entry {
	return timesheet.Entry{
		EntryDate:     r.EntryDate,
		DailyHours:    r.DailyHours,
		ExtraHours:    r.ExtraHours,
		VacationHours: r.VacationHours,
		Note:          r.Note,
	}
}

// CreateTimesheetRequest creates a draft timesheet.
// UserID is optional; when empty the sheet is filed for the caller.
type CreateTimesheetRequest struct {
	BusinessID string         `json:"businessId"`
	UserID     string         `json:"userId"`
	ClientID   string         `json:"clientId" binding:"required"`
	StartDate  time.Time      `json:"startDate" binding:"required"`
	EndDate    time.Time      `json:"endDate" binding:"required"`
	Entries    []EntryRequest `json:"entries"`

	// Status allows filing directly as submitted; empty means draft
	Status string `json:"status"`
}

// UpdateTimesheetRequest replaces the period and entry rows of a draft
// or rejected timesheet.
type UpdateTimesheetRequest struct {
	StartDate time.Time      `json:"startDate" binding:"required"`
	EndDate   time.Time      `json:"endDate" binding:"required"`
	Entries   []EntryRequest `json:"entries"`
}

// ToEntries converts the request rows.
func (r *UpdateTimesheetRequest) ToEntries() []timesheet.Entry {
	entries := make([]timesheet.Entry, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, e.ToEntry())
	}
	return entries
}

// ChangeStatusRequest moves a timesheet through its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TimesheetListQuery holds list filter query parameters.
type TimesheetListQuery struct {
	Search         string `form:"search"`
	UserID         string `form:"userId"`
	ClientID       string `form:"clientId"`
	Status         string `form:"status"`
	Year           int    `form:"year"`
	Month          int    `form:"month"`
	DateFrom       string `form:"dateFrom"`
	DateTo         string `form:"dateTo"`
	IncludeDeleted bool   `form:"includeDeleted"`
	OrderBy        string `form:"orderBy"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// MarginPayload exposes the computed margin block of a timesheet.
type MarginPayload struct {
	TotalHours      types.Hours `json:"totalHours"`
	GrossMargin     types.Money `json:"grossMargin"`
	Expense         types.Money `json:"expense"`
	InternalExpense types.Money `json:"internalExpense"`
	NetMargin       types.Money `json:"netMargin"`
}

// NewMarginPayload extracts the margin block from a timesheet.
func NewMarginPayload(ts *timesheet.Timesheet) MarginPayload {
	return MarginPayload{
		TotalHours:      ts.TotalHours,
		GrossMargin:     ts.GrossMargin,
		Expense:         ts.Expense,
		InternalExpense: ts.InternalExpense,
		NetMargin:       ts.NetMargin,
	}
}

// ResolveUserID resolves the optional userId of a create request.
func (r *CreateTimesheetRequest) ResolveUserID(fallback string) (id.ID, error) {
	raw := r.UserID
	if raw == "" {
		raw = fallback
	}
	return parseRequiredID(raw, "userId")
}
