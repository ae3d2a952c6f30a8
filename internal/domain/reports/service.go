package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/security"
	"timebill/internal/core/types"
	"timebill/internal/domain/catalogs/ratecard"
	"timebill/internal/domain/margin"
	"timebill/internal/domain/timesheet"
	"timebill/pkg/logger"
)

// TimesheetSource supplies the scoped record set for a report.
type TimesheetSource interface {
	ListAll(ctx context.Context, filter timesheet.ListFilter) ([]*timesheet.Timesheet, error)
}

// RateCardLookup resolves the rate card snapshotted on a record.
type RateCardLookup interface {
	GetByID(ctx context.Context, rateCardID id.ID) (*ratecard.RateCard, error)
}

// Service computes dashboard rollups.
type Service struct {
	timesheets TimesheetSource
	rateCards  RateCardLookup
	flags      security.FeatureFlagProvider
}

// NewService creates a new reports service.
func NewService(timesheets TimesheetSource, rateCards RateCardLookup, flags security.FeatureFlagProvider) *Service {
	return &Service{
		timesheets: timesheets,
		rateCards:  rateCards,
		flags:      flags,
	}
}

// scopedList applies the actor's tenant scope and visibility rule,
// then loads the matching records.
func (s *Service) scopedList(ctx context.Context, filter timesheet.ListFilter) ([]*timesheet.Timesheet, *security.Actor, error) {
	actor := security.ActorFrom(ctx)
	if actor == nil {
		return nil, nil, apperror.NewUnauthorized("authentication required")
	}

	filter.Scope = security.ScopeByBusiness(actor)
	if !actor.Can(security.ActionViewReports) {
		own, err := id.Parse(actor.UserID)
		if err != nil {
			return nil, nil, apperror.NewUnauthorized("invalid actor identity")
		}
		filter.UserID = &own
	}

	records, err := s.timesheets.ListAll(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("load timesheets: %w", err)
	}
	return records, actor, nil
}

// fold accumulates records into a summary, memoizing rate card lookups
// so a report issues at most one lookup per distinct card.
func (s *Service) fold(ctx context.Context, records []*timesheet.Timesheet, cards map[id.ID]*ratecard.RateCard) Summary {
	sum := Summary{
		TotalHours:      types.Zero(),
		GrossMargin:     types.Zero(),
		Expense:         types.Zero(),
		InternalExpense: types.Zero(),
		NetMargin:       types.Zero(),
	}

	for _, ts := range records {
		card, ok := cards[ts.RateCardID]
		if !ok {
			loaded, err := s.rateCards.GetByID(ctx, ts.RateCardID)
			if err != nil {
				// No active contract: exclude the record, report the rest.
				cards[ts.RateCardID] = nil
				if !apperror.IsNotFound(err) {
					logger.Warn(ctx, "rate card lookup failed", "rateCardId", ts.RateCardID, "error", err)
				}
			} else {
				cards[ts.RateCardID] = loaded
			}
			card = cards[ts.RateCardID]
		}
		if card == nil {
			sum.SkippedCount++
			continue
		}

		m := margin.Compute(ts.TotalHours, card.MarginInputs())
		sum.TotalHours = sum.TotalHours.Add(ts.TotalHours)
		sum.GrossMargin = sum.GrossMargin.Add(m.GrossMargin)
		sum.Expense = sum.Expense.Add(m.Expense)
		sum.InternalExpense = sum.InternalExpense.Add(m.InternalExpense)
		sum.NetMargin = sum.NetMargin.Add(m.NetMargin)
		sum.TimesheetCount++
	}

	return sum
}

// round prepares a summary for presentation.
func round(sum Summary) Summary {
	sum.GrossMargin = types.Round2(sum.GrossMargin)
	sum.Expense = types.Round2(sum.Expense)
	sum.InternalExpense = types.Round2(sum.InternalExpense)
	sum.NetMargin = types.Round2(sum.NetMargin)
	return sum
}

// Summary computes the monetary rollup over the scoped record set.
func (s *Service) Summary(ctx context.Context, filter timesheet.ListFilter) (Summary, error) {
	records, _, err := s.scopedList(ctx, filter)
	if err != nil {
		return Summary{}, err
	}

	cards := make(map[id.ID]*ratecard.RateCard)
	return round(s.fold(ctx, records, cards)), nil
}

// Trend computes per-period summaries, buckets ordered ascending.
func (s *Service) Trend(ctx context.Context, filter timesheet.ListFilter, period Period) ([]TrendBucket, error) {
	records, actor, err := s.scopedList(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.flags != nil && !s.flags.IsEnabled(ctx, actor.BusinessID, security.FlagTrendReports) {
		return nil, apperror.NewForbidden("trend reports are disabled for this business")
	}

	grouped := make(map[string][]*timesheet.Timesheet)
	for _, ts := range records {
		key := periodKey(ts.StartDate, period)
		grouped[key] = append(grouped[key], ts)
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cards := make(map[id.ID]*ratecard.RateCard)
	buckets := make([]TrendBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, TrendBucket{
			Period:  key,
			Summary: round(s.fold(ctx, grouped[key], cards)),
		})
	}
	return buckets, nil
}

// StatusCounts computes the status distribution in fixed display order.
func (s *Service) StatusCounts(ctx context.Context, filter timesheet.ListFilter) ([]StatusCount, error) {
	records, _, err := s.scopedList(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[timesheet.Status]int)
	for _, ts := range records {
		byStatus[ts.Status]++
	}

	counts := make([]StatusCount, 0, len(statusDisplay))
	for _, d := range statusDisplay {
		counts = append(counts, StatusCount{
			Status: d.status,
			Count:  byStatus[d.status],
			Color:  d.color,
		})
	}
	return counts, nil
}

// periodKey formats a record's period bucket. Keys sort lexicographically
// in chronological order within a granularity.
func periodKey(t time.Time, period Period) string {
	switch period {
	case PeriodDay:
		return t.Format("2006-01-02")
	case PeriodWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}
