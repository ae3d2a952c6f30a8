package timesheet

import (
	"context"
	"fmt"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/security"
	"timebill/internal/core/tx"
	"timebill/internal/core/types"
	"timebill/internal/domain"
	"timebill/internal/domain/catalogs/ratecard"
	"timebill/internal/domain/margin"
	"timebill/pkg/logger"
	"timebill/pkg/numerator"
)

// RateCardSource resolves and mutates the consultant's contract record.
// Satisfied by the rate card catalog service.
type RateCardSource interface {
	FindActiveByUser(ctx context.Context, businessID, userID id.ID) (*ratecard.RateCard, error)
	GetByID(ctx context.Context, rateCardID id.ID) (*ratecard.RateCard, error)

	// ApplyCountOn must run inside the caller's transaction; the
	// implementation locks the card row before accumulating.
	ApplyCountOn(ctx context.Context, rateCardID id.ID, totalHours types.Hours) error
}

// AuditLogger records lifecycle changes for later inspection.
type AuditLogger interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, userID, userEmail string, changes any) error
}

// Service provides business operations for timesheets.
type Service struct {
	repo      Repository
	rateCards RateCardSource
	txManager tx.Manager
	numerator *numerator.Service
	events    EventPublisher
	audit     AuditLogger
}

// NewService creates a new timesheet service.
func NewService(
	repo Repository,
	rateCards RateCardSource,
	txManager tx.Manager,
	num *numerator.Service,
	events EventPublisher,
	audit AuditLogger,
) *Service {
	return &Service{
		repo:      repo,
		rateCards: rateCards,
		txManager: txManager,
		numerator: num,
		events:    events,
		audit:     audit,
	}
}

// Create creates a timesheet in draft, or directly in submitted when the
// document arrives with that status. Resolves the consultant's active rate
// card, snapshots it on the document and accumulates the commission
// count-on fields under a row lock, all in one transaction.
func (s *Service) Create(ctx context.Context, ts *Timesheet) error {
	actor := security.ActorFrom(ctx)
	if err := security.RequireModify(actor, ts, "timesheet"); err != nil {
		return err
	}
	if ts.UserID.String() != actor.UserID && !actor.Can(security.ActionFileForOthers) {
		return apperror.NewForbidden("cannot file a timesheet for another user")
	}

	if ts.Status == "" {
		ts.Status = StatusDraft
	}
	if ts.Status != StatusDraft && ts.Status != StatusSubmitted {
		return apperror.NewValidation("timesheet can only be created as draft or submitted").
			WithDetail("field", "status").
			WithDetail("value", string(ts.Status))
	}
	submitOnCreate := ts.Status == StatusSubmitted
	ts.Status = StatusDraft

	if err := ts.Validate(ctx); err != nil {
		return err
	}

	// Missing active contract fails the write path loudly.
	card, err := s.rateCards.FindActiveByUser(ctx, ts.BusinessID, ts.UserID)
	if err != nil {
		return err
	}
	ts.RateCardID = card.ID

	for i := range ts.Entries {
		if ts.Entries[i].ClientRateSnapshot.IsZero() {
			ts.Entries[i].ClientRateSnapshot = card.ClientRate
		}
	}
	ts.RecalculateTotals()

	if ts.Number == "" {
		cfg := numerator.DefaultConfig("TS")
		cfg.Scope = ts.GetBusinessID()
		number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		ts.Number = number
	}

	now := time.Now().UTC()
	if submitOnCreate {
		if err := ts.Transition(StatusSubmitted, actor.UserID, now); err != nil {
			return err
		}
		ts.ApplyMargins(margin.Compute(ts.TotalHours, card.MarginInputs()))
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, ts); err != nil {
			return fmt.Errorf("create timesheet: %w", err)
		}
		if err := s.repo.SaveEntries(ctx, ts.ID, ts.Entries); err != nil {
			return fmt.Errorf("save entries: %w", err)
		}
		if err := s.rateCards.ApplyCountOn(ctx, card.ID, ts.TotalHours); err != nil {
			return err
		}

		if err := s.events.PublishEvent(ctx, AggregateType, ts.ID, EventCreated, CreatedEvent{
			TimesheetID: ts.ID,
			BusinessID:  ts.BusinessID,
			UserID:      ts.UserID,
			Number:      ts.Number,
			Status:      ts.Status,
			TotalHours:  ts.TotalHours,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("publish created event: %w", err)
		}
		if submitOnCreate {
			if err := s.publishStatusChange(ctx, ts, StatusDraft, StatusSubmitted, actor.UserID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, ts, "create", actor)
	logger.Info(ctx, "timesheet created", "id", ts.ID, "number", ts.Number, "status", ts.Status)
	return nil
}

// GetByID retrieves a timesheet with entries, enforcing the view predicate.
func (s *Service) GetByID(ctx context.Context, tsID id.ID) (*Timesheet, error) {
	ts, err := s.repo.GetByID(ctx, tsID)
	if err != nil {
		return nil, err
	}

	actor := security.ActorFrom(ctx)
	if err := security.RequireView(actor, ts, "timesheet"); err != nil {
		return nil, err
	}

	entries, err := s.repo.GetEntries(ctx, tsID)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	ts.Entries = entries

	return ts, nil
}

// List retrieves timesheets scoped to the actor. Actors without the
// approval capability see only their own documents.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Timesheet], error) {
	actor := security.ActorFrom(ctx)
	if actor == nil {
		return domain.ListResult[*Timesheet]{}, apperror.NewUnauthorized("authentication required")
	}

	filter.Scope = security.ScopeByBusiness(actor)
	if !actor.Can(security.ActionApproveTimesheet) {
		own, err := id.Parse(actor.UserID)
		if err != nil {
			return domain.ListResult[*Timesheet]{}, apperror.NewUnauthorized("invalid actor identity")
		}
		filter.UserID = &own
	}

	return s.repo.List(ctx, filter)
}

// Update replaces the entry set wholesale. Permitted only while the
// document is draft or rejected.
func (s *Service) Update(ctx context.Context, tsID id.ID, entries []Entry, start, end time.Time) (*Timesheet, error) {
	ts, err := s.GetByID(ctx, tsID)
	if err != nil {
		return nil, err
	}

	actor := security.ActorFrom(ctx)
	if err := security.RequireModify(actor, ts, "timesheet"); err != nil {
		return nil, err
	}
	if !ts.IsEditable() {
		return nil, apperror.NewInvalidStateTransition(string(ts.Status), "edit")
	}

	if !start.IsZero() {
		ts.StartDate = start
	}
	if !end.IsZero() {
		ts.EndDate = end
	}
	ts.ReplaceEntries(entries)
	if err := ts.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, ts); err != nil {
			return fmt.Errorf("update timesheet: %w", err)
		}
		if err := s.repo.SaveEntries(ctx, ts.ID, ts.Entries); err != nil {
			return fmt.Errorf("save entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, ts, "update", actor)
	return ts, nil
}

// Delete hard-deletes a timesheet and its entries. Permitted only while
// the document is draft or rejected.
func (s *Service) Delete(ctx context.Context, tsID id.ID) error {
	ts, err := s.repo.GetByID(ctx, tsID)
	if err != nil {
		return err
	}

	actor := security.ActorFrom(ctx)
	if err := security.RequireModify(actor, ts, "timesheet"); err != nil {
		return err
	}
	if !ts.IsDeletable() {
		return apperror.NewInvalidStateTransition(string(ts.Status), "delete")
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.HardDelete(ctx, tsID); err != nil {
			return fmt.Errorf("delete timesheet: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, ts, "delete", actor)
	logger.Info(ctx, "timesheet deleted", "id", ts.ID, "number", ts.Number)
	return nil
}

// ChangeStatus moves the document through the state machine, recomputing
// margins from the snapshotted rate card and emitting exactly one
// notification event. Approval and rejection require the approval
// capability.
func (s *Service) ChangeStatus(ctx context.Context, tsID id.ID, to Status) (*Timesheet, error) {
	ts, err := s.GetByID(ctx, tsID)
	if err != nil {
		return nil, err
	}

	actor := security.ActorFrom(ctx)
	if err := security.RequireModify(actor, ts, "timesheet"); err != nil {
		return nil, err
	}
	if (to == StatusApproved || to == StatusRejected) && !actor.Can(security.ActionApproveTimesheet) {
		return nil, apperror.NewForbidden("approval capability required")
	}

	from := ts.Status
	now := time.Now().UTC()
	if err := ts.Transition(to, actor.UserID, now); err != nil {
		return nil, err
	}

	// Margins are recomputed on every transition, rejection included.
	card, err := s.rateCards.GetByID(ctx, ts.RateCardID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewMissingRateCard(ts.UserID.String())
		}
		return nil, err
	}
	ts.ApplyMargins(margin.Compute(ts.TotalHours, card.MarginInputs()))

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, ts); err != nil {
			return fmt.Errorf("update timesheet: %w", err)
		}
		return s.publishStatusChange(ctx, ts, from, to, actor.UserID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, ts, "status_"+string(to), actor)
	logger.Info(ctx, "timesheet status changed",
		"id", ts.ID, "number", ts.Number, "from", from, "to", to)
	return ts, nil
}

func (s *Service) publishStatusChange(ctx context.Context, ts *Timesheet, from, to Status, actorID string, at time.Time) error {
	err := s.events.PublishEvent(ctx, AggregateType, ts.ID, EventStatusChanged, StatusChangedEvent{
		TimesheetID: ts.ID,
		BusinessID:  ts.BusinessID,
		UserID:      ts.UserID,
		Number:      ts.Number,
		From:        from,
		To:          to,
		ActorID:     actorID,
		Audience:    audienceFor(to),
		OccurredAt:  at,
	})
	if err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}

// logAudit records the change best-effort; audit failure never fails the
// already committed operation.
func (s *Service) logAudit(ctx context.Context, ts *Timesheet, action string, actor *security.Actor) {
	if s.audit == nil {
		return
	}
	userID := ""
	if actor != nil {
		userID = actor.UserID
	}
	if err := s.audit.LogChange(ctx, AggregateType, ts.ID, action, userID, "", ts); err != nil {
		logger.Warn(ctx, "audit log failed", "id", ts.ID, "action", action, "error", err)
	}
}
