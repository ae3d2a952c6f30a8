package holiday

import (
	"context"
	"fmt"
	"time"

	"timebill/internal/core/id"
	"timebill/internal/core/tx"
	"timebill/internal/domain"
	"timebill/pkg/numerator"
)

// Service provides business logic for the Holiday catalog.
type Service struct {
	*domain.CatalogService[*Holiday]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Holiday service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Holiday]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "holiday",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, h *Holiday) error {
	if h.Code == "" {
		cfg := numerator.DefaultConfig("HD")
		cfg.Scope = h.GetBusinessID()
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		h.Code = code
	}
	return nil
}

// ListByYear retrieves holidays of one calendar year within a tenant.
func (s *Service) ListByYear(ctx context.Context, businessID id.ID, year int) ([]*Holiday, error) {
	return s.repo.ListByYear(ctx, businessID, year)
}
