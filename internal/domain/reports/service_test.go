package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebill/internal/core/apperror"
	appctx "timebill/internal/core/context"
	"timebill/internal/core/id"
	"timebill/internal/core/types"
	"timebill/internal/domain/catalogs/ratecard"
	"timebill/internal/domain/timesheet"
)

type fakeSource struct {
	records    []*timesheet.Timesheet
	lastFilter timesheet.ListFilter
}

func (f *fakeSource) ListAll(ctx context.Context, filter timesheet.ListFilter) ([]*timesheet.Timesheet, error) {
	f.lastFilter = filter
	return f.records, nil
}

type fakeCards struct {
	cards   map[id.ID]*ratecard.RateCard
	lookups int
}

func (f *fakeCards) GetByID(ctx context.Context, rateCardID id.ID) (*ratecard.RateCard, error) {
	f.lookups++
	card, ok := f.cards[rateCardID]
	if !ok {
		return nil, apperror.NewNotFound("rate card", rateCardID.String())
	}
	return card, nil
}

type reportFixture struct {
	svc        *Service
	source     *fakeSource
	cards      *fakeCards
	businessID id.ID
	card       *ratecard.RateCard
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	businessID := id.New()
	card := ratecard.New(businessID, id.New())
	card.ClientRate = types.MustMoney("100")
	card.C2CRate = types.MustMoney("50")
	card.RecruiterCommission = types.MustMoney("2")

	source := &fakeSource{}
	cards := &fakeCards{cards: map[id.ID]*ratecard.RateCard{card.ID: card}}

	return &reportFixture{
		svc:        NewService(source, cards, nil),
		source:     source,
		cards:      cards,
		businessID: businessID,
		card:       card,
	}
}

func (f *reportFixture) adminCtx() context.Context {
	return appctx.WithActor(context.Background(), &appctx.ActorContext{
		UserID:     id.New().String(),
		BusinessID: f.businessID.String(),
		Roles:      []string{"business_admin"},
	})
}

func (f *reportFixture) addSheet(start time.Time, hours string, status timesheet.Status) *timesheet.Timesheet {
	ts := timesheet.New(f.businessID, f.card.UserID, id.New(), start, start.AddDate(0, 0, 4))
	ts.RateCardID = f.card.ID
	ts.TotalHours = types.MustMoney(hours)
	ts.Status = status
	f.source.records = append(f.source.records, ts)
	return ts
}

func mar(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestSummary(t *testing.T) {
	f := newReportFixture(t)
	f.addSheet(mar(2), "40", timesheet.StatusApproved)
	f.addSheet(mar(9), "10", timesheet.StatusSubmitted)

	sum, err := f.svc.Summary(f.adminCtx(), timesheet.DefaultListFilter())
	require.NoError(t, err)

	// gross = 50h * 100, expense = 50h * 50, internal = 50h * 2
	assert.True(t, sum.TotalHours.Equal(types.MustMoney("50")))
	assert.True(t, sum.GrossMargin.Equal(types.MustMoney("5000")), "gross %s", sum.GrossMargin)
	assert.True(t, sum.Expense.Equal(types.MustMoney("2500")))
	assert.True(t, sum.InternalExpense.Equal(types.MustMoney("100")))
	assert.True(t, sum.NetMargin.Equal(types.MustMoney("2400")))
	assert.Equal(t, 2, sum.TimesheetCount)
}

func TestSummary_SkipsRecordsWithoutRateCard(t *testing.T) {
	f := newReportFixture(t)
	f.addSheet(mar(2), "40", timesheet.StatusApproved)

	orphan := f.addSheet(mar(9), "99", timesheet.StatusApproved)
	orphan.RateCardID = id.New() // unknown card

	sum, err := f.svc.Summary(f.adminCtx(), timesheet.DefaultListFilter())
	require.NoError(t, err)

	// the orphan contributes nothing, not zero rows of money
	assert.True(t, sum.TotalHours.Equal(types.MustMoney("40")))
	assert.True(t, sum.GrossMargin.Equal(types.MustMoney("4000")))
	assert.Equal(t, 1, sum.TimesheetCount)
	assert.Equal(t, 1, sum.SkippedCount)
}

func TestTrend_BucketsAscendingAndTotalsMatchSummary(t *testing.T) {
	f := newReportFixture(t)
	f.addSheet(mar(2), "40", timesheet.StatusApproved)
	f.addSheet(mar(9), "10", timesheet.StatusApproved)
	f.addSheet(time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC), "20", timesheet.StatusSubmitted)

	buckets, err := f.svc.Trend(f.adminCtx(), timesheet.DefaultListFilter(), PeriodMonth)
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Equal(t, "2026-03", buckets[0].Period)
	assert.Equal(t, "2026-04", buckets[1].Period)

	// grouping never changes totals
	sum, err := f.svc.Summary(f.adminCtx(), timesheet.DefaultListFilter())
	require.NoError(t, err)

	total := types.Zero()
	hours := types.Zero()
	for _, b := range buckets {
		total = total.Add(b.NetMargin)
		hours = hours.Add(b.TotalHours)
	}
	assert.True(t, total.Equal(sum.NetMargin), "trend %s vs summary %s", total, sum.NetMargin)
	assert.True(t, hours.Equal(sum.TotalHours))
}

func TestTrend_PeriodKeys(t *testing.T) {
	tests := []struct {
		period Period
		want   string
	}{
		{PeriodDay, "2026-03-02"},
		{PeriodWeek, "2026-W10"},
		{PeriodMonth, "2026-03"},
		{PeriodYear, "2026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, periodKey(mar(2), tt.period))
	}
}

func TestStatusCounts_FixedOrder(t *testing.T) {
	f := newReportFixture(t)
	f.addSheet(mar(2), "40", timesheet.StatusDraft)
	f.addSheet(mar(3), "40", timesheet.StatusDraft)
	f.addSheet(mar(4), "40", timesheet.StatusApproved)
	f.addSheet(mar(5), "40", timesheet.StatusRejected)

	counts, err := f.svc.StatusCounts(f.adminCtx(), timesheet.DefaultListFilter())
	require.NoError(t, err)

	require.Len(t, counts, 4)
	assert.Equal(t, timesheet.StatusApproved, counts[0].Status)
	assert.Equal(t, timesheet.StatusSubmitted, counts[1].Status)
	assert.Equal(t, timesheet.StatusDraft, counts[2].Status)
	assert.Equal(t, timesheet.StatusRejected, counts[3].Status)

	assert.Equal(t, 1, counts[0].Count)
	assert.Equal(t, 0, counts[1].Count)
	assert.Equal(t, 2, counts[2].Count)
	assert.Equal(t, 1, counts[3].Count)
	assert.Equal(t, "green", counts[0].Color)
}

func TestReports_PlainUserScopedToOwnRecords(t *testing.T) {
	f := newReportFixture(t)
	userID := id.New()

	ctx := appctx.WithActor(context.Background(), &appctx.ActorContext{
		UserID:     userID.String(),
		BusinessID: f.businessID.String(),
		Roles:      []string{"user"},
	})

	_, err := f.svc.Summary(ctx, timesheet.DefaultListFilter())
	require.NoError(t, err)

	require.NotNil(t, f.source.lastFilter.UserID)
	assert.Equal(t, userID, *f.source.lastFilter.UserID)
	assert.NotNil(t, f.source.lastFilter.Scope)
}

func TestRateCardLookupsAreMemoized(t *testing.T) {
	f := newReportFixture(t)
	for i := 0; i < 10; i++ {
		f.addSheet(mar(2+i), "8", timesheet.StatusApproved)
	}

	_, err := f.svc.Summary(f.adminCtx(), timesheet.DefaultListFilter())
	require.NoError(t, err)

	assert.Equal(t, 1, f.cards.lookups)
}
