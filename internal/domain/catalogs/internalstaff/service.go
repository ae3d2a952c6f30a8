package internalstaff

import (
	"context"
	"fmt"
	"time"

	"timebill/internal/core/id"
	"timebill/internal/core/tx"
	"timebill/internal/domain"
	"timebill/pkg/numerator"
)

// Service provides business logic for the InternalUser catalog.
type Service struct {
	*domain.CatalogService[*InternalUser]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new InternalUser service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*InternalUser]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "internal user",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate handles code generation before create.
func (s *Service) prepareForCreate(ctx context.Context, u *InternalUser) error {
	if u.Code == "" {
		cfg := numerator.DefaultConfig("IU")
		cfg.Scope = u.GetBusinessID()
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		u.Code = code
	}
	return nil
}

// ListByType retrieves internal users of one commission role within a tenant.
func (s *Service) ListByType(ctx context.Context, businessID id.ID, staffType StaffType) ([]*InternalUser, error) {
	return s.repo.ListByType(ctx, businessID, staffType)
}
