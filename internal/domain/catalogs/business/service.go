package business

import (
	"context"
	"fmt"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/tx"
	"timebill/internal/domain"
	"timebill/pkg/numerator"
)

// Service provides business logic for the Business catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Business]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Business service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Business]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "business",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkNameUnique)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks before create.
func (s *Service) prepareForCreate(ctx context.Context, b *Business) error {
	if b.Code == "" {
		cfg := numerator.DefaultConfig("BZ")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		b.Code = code
	}

	return s.checkNameUnique(ctx, b)
}

// checkNameUnique rejects a second tenant with the same name.
func (s *Service) checkNameUnique(ctx context.Context, b *Business) error {
	existing, err := s.repo.FindByName(ctx, b.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != b.ID {
		return apperror.NewConflict("business with this name already exists").
			WithDetail("name", b.Name)
	}
	return nil
}

// SetStatus updates only the status of a tenant.
func (s *Service) SetStatus(ctx context.Context, businessID id.ID, status Status) (*Business, error) {
	b, err := s.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	b.Status = status
	if err := s.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SetLoginEnabled toggles interactive sign-in for the tenant's users.
func (s *Service) SetLoginEnabled(ctx context.Context, businessID id.ID, enabled bool) (*Business, error) {
	b, err := s.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	b.LoginEnabled = enabled
	if err := s.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
