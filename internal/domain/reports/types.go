// Package reports provides read-side rollups over timesheets: dashboard
// summaries, trend charts and status distributions. All figures reuse
// the margin calculator per record; records without a rate card are
// excluded, never treated as zero.
package reports

import (
	"timebill/internal/core/apperror"
	"timebill/internal/core/types"
	"timebill/internal/domain/timesheet"
)

// Period is the trend bucketing granularity.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a raw period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	case "":
		return PeriodMonth, nil
	default:
		return "", apperror.NewValidation("invalid trend period").
			WithDetail("field", "period").
			WithDetail("value", s)
	}
}

// Summary is the monetary rollup over a scoped timesheet set.
// Money figures are rounded to 2 decimal places for presentation.
type Summary struct {
	TotalHours      types.Hours `json:"totalHours"`
	GrossMargin     types.Money `json:"grossMargin"`
	Expense         types.Money `json:"expense"`
	InternalExpense types.Money `json:"internalExpense"`
	NetMargin       types.Money `json:"netMargin"`

	// TimesheetCount is the number of records contributing to the figures
	TimesheetCount int `json:"timesheetCount"`

	// SkippedCount is the number of records excluded for lack of a rate card
	SkippedCount int `json:"skippedCount"`
}

// TrendBucket is one period's summary, ordered ascending by period key.
type TrendBucket struct {
	// Period key, e.g. "2026-03-02", "2026-W10", "2026-03", "2026"
	Period string `json:"period"`

	Summary
}

// StatusCount is one status slice of the distribution chart.
type StatusCount struct {
	Status timesheet.Status `json:"status"`
	Count  int              `json:"count"`

	// Color is the presentation token for the status slice
	Color string `json:"color"`
}

// statusDisplay fixes the chart ordering and color tokens.
var statusDisplay = []struct {
	status timesheet.Status
	color  string
}{
	{timesheet.StatusApproved, "green"},
	{timesheet.StatusSubmitted, "orange"},
	{timesheet.StatusDraft, "gray"},
	{timesheet.StatusRejected, "red"},
}
