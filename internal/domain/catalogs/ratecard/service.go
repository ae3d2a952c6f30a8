package ratecard

import (
	"context"
	"fmt"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/tx"
	"timebill/internal/core/types"
	"timebill/internal/domain"
	"timebill/pkg/numerator"
)

// Service provides business logic for the RateCard catalog.
type Service struct {
	*domain.CatalogService[*RateCard]
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new RateCard service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*RateCard]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "rate card",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate handles code and label generation before create.
func (s *Service) prepareForCreate(ctx context.Context, rc *RateCard) error {
	if rc.Code == "" {
		cfg := numerator.DefaultConfig("RC")
		cfg.Scope = rc.GetBusinessID()
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		rc.Code = code
	}
	if rc.Name == "" {
		rc.Name = "Rate card " + rc.Code
	}
	return nil
}

// Create inserts a card, demoting any previously active card for the
// same (user, business) so at most one stays active.
func (s *Service) Create(ctx context.Context, rc *RateCard) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if rc.Active {
			if err := s.demoteActive(ctx, rc); err != nil {
				return err
			}
		}
		return s.CatalogService.Create(ctx, rc)
	})
}

// Update modifies a card, preserving the single-active invariant.
func (s *Service) Update(ctx context.Context, rc *RateCard) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if rc.Active {
			if err := s.demoteActive(ctx, rc); err != nil {
				return err
			}
		}
		return s.CatalogService.Update(ctx, rc)
	})
}

// demoteActive deactivates the current active card for (user, business),
// skipping the card being saved.
func (s *Service) demoteActive(ctx context.Context, rc *RateCard) error {
	current, err := s.repo.FindActiveByUser(ctx, rc.BusinessID, rc.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if current.ID == rc.ID {
		return nil
	}
	current.Active = false
	if err := s.repo.Update(ctx, current); err != nil {
		return fmt.Errorf("demote active rate card: %w", err)
	}
	return nil
}

// FindActiveByUser retrieves the active card for a consultant.
// Returns a missing-rate-card error suitable for lifecycle guards.
func (s *Service) FindActiveByUser(ctx context.Context, businessID, userID id.ID) (*RateCard, error) {
	rc, err := s.repo.FindActiveByUser(ctx, businessID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewMissingRateCard(userID.String())
		}
		return nil, err
	}
	return rc, nil
}

// ListByUser retrieves all cards for a consultant within a tenant.
func (s *Service) ListByUser(ctx context.Context, businessID, userID id.ID) ([]*RateCard, error) {
	return s.repo.ListByUser(ctx, businessID, userID)
}

// ApplyCountOn records commission × hours on the card under a row lock.
// Must be called inside the transaction that creates the timesheet so the
// accumulation commits or rolls back with it.
func (s *Service) ApplyCountOn(ctx context.Context, rateCardID id.ID, totalHours types.Hours) error {
	rc, err := s.repo.GetForUpdate(ctx, rateCardID)
	if err != nil {
		return fmt.Errorf("lock rate card: %w", err)
	}
	rc.ApplyCountOn(totalHours)
	if err := s.repo.Update(ctx, rc); err != nil {
		return fmt.Errorf("apply count-on: %w", err)
	}
	return nil
}
