package timesheet

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
	"timebill/internal/domain"
	"timebill/internal/domain/catalogs/ratecard"
)

// --- fakes ---

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	sheets  map[id.ID]*Timesheet
	entries map[id.ID][]Entry
	deleted []id.ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sheets:  make(map[id.ID]*Timesheet),
		entries: make(map[id.ID][]Entry),
	}
}

func (r *fakeRepo) Create(ctx context.Context, ts *Timesheet) error {
	cp := *ts
	r.sheets[ts.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, tsID id.ID) (*Timesheet, error) {
	ts, ok := r.sheets[tsID]
	if !ok {
		return nil, apperror.NewNotFound("timesheet", tsID.String())
	}
	cp := *ts
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, ts *Timesheet) error {
	if _, ok := r.sheets[ts.ID]; !ok {
		return apperror.NewNotFound("timesheet", ts.ID.String())
	}
	cp := *ts
	r.sheets[ts.ID] = &cp
	return nil
}

func (r *fakeRepo) HardDelete(ctx context.Context, tsID id.ID) error {
	delete(r.sheets, tsID)
	delete(r.entries, tsID)
	r.deleted = append(r.deleted, tsID)
	return nil
}

func (r *fakeRepo) SaveEntries(ctx context.Context, tsID id.ID, entries []Entry) error {
	r.entries[tsID] = append([]Entry(nil), entries...)
	return nil
}

func (r *fakeRepo) GetEntries(ctx context.Context, tsID id.ID) ([]Entry, error) {
	return r.entries[tsID], nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Timesheet], error) {
	var items []*Timesheet
	for _, ts := range r.sheets {
		if filter.UserID != nil && ts.UserID != *filter.UserID {
			continue
		}
		items = append(items, ts)
	}
	return domain.ListResult[*Timesheet]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) ListAll(ctx context.Context, filter ListFilter) ([]*Timesheet, error) {
	res, _ := r.List(ctx, filter)
	return res.Items, nil
}

type fakeRateCards struct {
	card    *ratecard.RateCard
	countOn []types.Hours
}

func (f *fakeRateCards) FindActiveByUser(ctx context.Context, businessID, userID id.ID) (*ratecard.RateCard, error) {
	if f.card == nil {
		return nil, apperror.NewMissingRateCard(userID.String())
	}
	return f.card, nil
}

func (f *fakeRateCards) GetByID(ctx context.Context, rateCardID id.ID) (*ratecard.RateCard, error) {
	if f.card == nil || f.card.ID != rateCardID {
		return nil, apperror.NewNotFound("rate card", rateCardID.String())
	}
	return f.card, nil
}

func (f *fakeRateCards) ApplyCountOn(ctx context.Context, rateCardID id.ID, totalHours types.Hours) error {
	f.countOn = append(f.countOn, totalHours)
	return nil
}

type publishedEvent struct {
	eventType string
	payload   any
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) PublishEvent(ctx context.Context, aggregateType string, aggregateID id.ID, eventType string, payload any) error {
	p.events = append(p.events, publishedEvent{eventType: eventType, payload: payload})
	return nil
}

// --- helpers ---

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	rateCards  *fakeRateCards
	events     *fakePublisher
	businessID id.ID
	userID     id.ID
	clientID   id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	businessID := id.New()
	userID := id.New()

	card := ratecard.New(businessID, userID)
	card.ClientRate = types.MustMoney("100")
	card.C2CRate = types.MustMoney("50")

	repo := newFakeRepo()
	rateCards := &fakeRateCards{card: card}
	events := &fakePublisher{}

	svc := NewService(repo, rateCards, nopTxManager{}, nil, events, nil)

	return &fixture{
		svc:        svc,
		repo:       repo,
		rateCards:  rateCards,
		events:     events,
		businessID: businessID,
		userID:     userID,
		clientID:   id.New(),
	}
}

func (f *fixture) actorCtx(userID id.ID, businessID id.ID, roles ...string) context.Context {
	return appctx.WithActor(context.Background(), &appctx.ActorContext{
		UserID:     userID.String(),
		BusinessID: businessID.String(),
		Roles:      roles,
	})
}

func (f *fixture) ownerCtx() context.Context {
	return f.actorCtx(f.userID, f.businessID, "user")
}

func (f *fixture) adminCtx() context.Context {
	return f.actorCtx(id.New(), f.businessID, "business_admin")
}

func (f *fixture) newSheet() *Timesheet {
	ts := New(f.businessID, f.userID, f.clientID, day(2), day(6))
	ts.Number = "TS-2026-00001"
	for i := 0; i < 5; i++ {
		ts.AddEntry(day(2+i), types.MustMoney("8"), types.Zero(), types.Zero(), nil, types.Zero())
	}
	return ts
}

// --- tests ---

func TestCreate_DraftWithCountOn(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()

	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))

	assert.Equal(t, StatusDraft, ts.Status)
	assert.Equal(t, f.rateCards.card.ID, ts.RateCardID)
	assert.True(t, ts.TotalHours.Equal(types.MustMoney("40")))

	// entries snapshot the card's client rate
	for _, e := range ts.Entries {
		assert.True(t, e.ClientRateSnapshot.Equal(types.MustMoney("100")))
	}

	// count-on accumulated exactly once with the sheet's total
	require.Len(t, f.rateCards.countOn, 1)
	assert.True(t, f.rateCards.countOn[0].Equal(types.MustMoney("40")))

	require.Len(t, f.events.events, 1)
	assert.Equal(t, EventCreated, f.events.events[0].eventType)
}

func TestCreate_SubmitOnCreateComputesMargins(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()
	ts.Status = StatusSubmitted

	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))

	assert.Equal(t, StatusSubmitted, ts.Status)
	require.NotNil(t, ts.SubmittedAt)

	// clientRate=100, consultantRate=0, c2c=50, 40h
	assert.True(t, ts.GrossMargin.Equal(types.MustMoney("4000")), "gross %s", ts.GrossMargin)
	assert.True(t, ts.Expense.Equal(types.MustMoney("2000")), "expense %s", ts.Expense)
	assert.True(t, ts.InternalExpense.IsZero())
	assert.True(t, ts.NetMargin.Equal(types.MustMoney("2000")), "net %s", ts.NetMargin)

	// one created event plus exactly one status notification
	require.Len(t, f.events.events, 2)
	assert.Equal(t, EventStatusChanged, f.events.events[1].eventType)
	payload := f.events.events[1].payload.(StatusChangedEvent)
	assert.Equal(t, AudienceApprovers, payload.Audience)
}

func TestCreate_MissingRateCardFails(t *testing.T) {
	f := newFixture(t)
	f.rateCards.card = nil

	err := f.svc.Create(f.ownerCtx(), f.newSheet())
	require.Error(t, err)
	assert.True(t, apperror.IsMissingRateCard(err))
	assert.Empty(t, f.repo.sheets)
}

func TestCreate_ForOtherUserRequiresCapability(t *testing.T) {
	f := newFixture(t)

	// plain user filing for someone else
	other := f.actorCtx(id.New(), f.businessID, "user")
	err := f.svc.Create(other, f.newSheet())
	require.Error(t, err)

	// tenant admin may file for others
	require.NoError(t, f.svc.Create(f.adminCtx(), f.newSheet()))
}

func TestApproveFlow(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()
	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))

	_, err := f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
	require.NoError(t, err)

	got, err := f.svc.ChangeStatus(f.adminCtx(), ts.ID, StatusApproved)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
	require.NotNil(t, got.ApprovedBy)
	assert.True(t, got.NetMargin.Equal(types.MustMoney("2000")))

	// owner notified on approval
	last := f.events.events[len(f.events.events)-1].payload.(StatusChangedEvent)
	assert.Equal(t, AudienceOwner, last.Audience)
}

func TestApprove_RequiresCapability(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()
	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))
	_, err := f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusApproved)
	require.Error(t, err)
}

func TestChangeStatus_CrossTenantRejected(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()
	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))
	_, err := f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
	require.NoError(t, err)

	foreign := f.actorCtx(id.New(), id.New(), "business_admin")
	_, err = f.svc.ChangeStatus(foreign, ts.ID, StatusApproved)
	require.Error(t, err)

	stored, err := f.repo.GetByID(context.Background(), ts.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, stored.Status)
}

func TestChangeStatus_RejectRecomputesMargins(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()
	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))
	_, err := f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
	require.NoError(t, err)

	got, err := f.svc.ChangeStatus(f.adminCtx(), ts.ID, StatusRejected)
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, got.Status)
	assert.True(t, got.GrossMargin.Equal(types.MustMoney("4000")))

	// rejected sheets may be resubmitted
	_, err = f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
	require.NoError(t, err)
}

func TestUpdate_LifecycleGuard(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()
	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))

	// editable while draft
	entries := []Entry{{EntryDate: day(2), DailyHours: types.MustMoney("4")}}
	got, err := f.svc.Update(f.ownerCtx(), ts.ID, entries, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.True(t, got.TotalHours.Equal(types.MustMoney("4")))

	// locked once submitted
	_, err = f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
	require.NoError(t, err)
	_, err = f.svc.Update(f.ownerCtx(), ts.ID, entries, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidStateTransition(err))

	// locked once approved
	_, err = f.svc.ChangeStatus(f.adminCtx(), ts.ID, StatusApproved)
	require.NoError(t, err)
	_, err = f.svc.Update(f.ownerCtx(), ts.ID, entries, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidStateTransition(err))
}

func TestDelete_LifecycleGuard(t *testing.T) {
	f := newFixture(t)

	t.Run("draft deletes", func(t *testing.T) {
		ts := f.newSheet()
		require.NoError(t, f.svc.Create(f.ownerCtx(), ts))
		require.NoError(t, f.svc.Delete(f.ownerCtx(), ts.ID))
		_, err := f.repo.GetByID(context.Background(), ts.ID)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("submitted refuses", func(t *testing.T) {
		ts := f.newSheet()
		require.NoError(t, f.svc.Create(f.ownerCtx(), ts))
		_, err := f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
		require.NoError(t, err)

		err = f.svc.Delete(f.ownerCtx(), ts.ID)
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidStateTransition(err))

		stored, err := f.repo.GetByID(context.Background(), ts.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, stored.Status)
	})

	t.Run("rejected deletes", func(t *testing.T) {
		ts := f.newSheet()
		require.NoError(t, f.svc.Create(f.ownerCtx(), ts))
		_, err := f.svc.ChangeStatus(f.ownerCtx(), ts.ID, StatusSubmitted)
		require.NoError(t, err)
		_, err = f.svc.ChangeStatus(f.adminCtx(), ts.ID, StatusRejected)
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(f.ownerCtx(), ts.ID))
	})
}

func TestList_PlainUserSeesOnlyOwn(t *testing.T) {
	f := newFixture(t)
	ts := f.newSheet()
	require.NoError(t, f.svc.Create(f.ownerCtx(), ts))

	res, err := f.svc.List(f.ownerCtx(), DefaultListFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalCount)

	// a different plain user in the same tenant sees nothing
	stranger := f.actorCtx(id.New(), f.businessID, "user")
	res, err = f.svc.List(stranger, DefaultListFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TotalCount)
}
