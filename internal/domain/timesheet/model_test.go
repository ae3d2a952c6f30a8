package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/types"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func newTestSheet(t *testing.T) *Timesheet {
	t.Helper()
	ts := New(id.New(), id.New(), id.New(), day(2), day(6))
	for i := 0; i < 5; i++ {
		ts.AddEntry(day(2+i), types.MustMoney("8"), types.Zero(), types.Zero(), nil, types.MustMoney("100"))
	}
	return ts
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusRejected, false},
		{StatusSubmitted, StatusApproved, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusSubmitted, StatusDraft, false},
		{StatusRejected, StatusSubmitted, true},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusSubmitted, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTransition_StampsFields(t *testing.T) {
	ts := newTestSheet(t)
	approver := id.New()
	now := time.Now().UTC()

	require.NoError(t, ts.Transition(StatusSubmitted, "", now))
	require.NotNil(t, ts.SubmittedAt)
	assert.Equal(t, now, *ts.SubmittedAt)

	require.NoError(t, ts.Transition(StatusApproved, approver.String(), now))
	require.NotNil(t, ts.ApprovedAt)
	require.NotNil(t, ts.ApprovedBy)
	assert.Equal(t, approver, *ts.ApprovedBy)
	assert.Equal(t, StatusApproved, ts.Status)
}

func TestTransition_TerminalApproved(t *testing.T) {
	ts := newTestSheet(t)
	ts.Status = StatusApproved

	err := ts.Transition(StatusSubmitted, "", time.Now())
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidStateTransition(err))
	assert.Equal(t, StatusApproved, ts.Status)
}

func TestRecalculateTotals_VacationExcluded(t *testing.T) {
	ts := New(id.New(), id.New(), id.New(), day(2), day(4))
	ts.AddEntry(day(2), types.MustMoney("8"), types.MustMoney("2"), types.Zero(), nil, types.Zero())
	ts.AddEntry(day(3), types.MustMoney("8"), types.Zero(), types.MustMoney("8"), nil, types.Zero())

	// 8+2+8 worked; the 8 vacation hours do not count
	assert.True(t, ts.TotalHours.Equal(types.MustMoney("18")), "got %s", ts.TotalHours)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, newTestSheet(t).Validate(context.Background()))
	})

	t.Run("no entries", func(t *testing.T) {
		ts := New(id.New(), id.New(), id.New(), day(2), day(6))
		assert.Error(t, ts.Validate(context.Background()))
	})

	t.Run("duplicate entry date", func(t *testing.T) {
		ts := New(id.New(), id.New(), id.New(), day(2), day(6))
		ts.AddEntry(day(2), types.MustMoney("8"), types.Zero(), types.Zero(), nil, types.Zero())
		ts.AddEntry(day(2), types.MustMoney("4"), types.Zero(), types.Zero(), nil, types.Zero())
		assert.Error(t, ts.Validate(context.Background()))
	})

	t.Run("negative hours", func(t *testing.T) {
		ts := New(id.New(), id.New(), id.New(), day(2), day(6))
		ts.AddEntry(day(2), types.MustMoney("-1"), types.Zero(), types.Zero(), nil, types.Zero())
		assert.Error(t, ts.Validate(context.Background()))
	})

	t.Run("inverted period", func(t *testing.T) {
		ts := New(id.New(), id.New(), id.New(), day(6), day(2))
		ts.AddEntry(day(3), types.MustMoney("8"), types.Zero(), types.Zero(), nil, types.Zero())
		assert.Error(t, ts.Validate(context.Background()))
	})
}

func TestReplaceEntries(t *testing.T) {
	ts := newTestSheet(t)
	ts.ReplaceEntries([]Entry{
		{EntryDate: day(2), DailyHours: types.MustMoney("4")},
	})

	require.Len(t, ts.Entries, 1)
	assert.False(t, id.IsNil(ts.Entries[0].LineID))
	assert.True(t, ts.TotalHours.Equal(types.MustMoney("4")))
}
