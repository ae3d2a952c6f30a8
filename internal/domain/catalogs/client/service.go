package client

import (
	"context"
	"fmt"
	"time"

	"timebill/internal/core/apperror"
	"timebill/internal/core/tx"
	"timebill/internal/domain"
	"timebill/pkg/numerator"
)

// Service provides business logic for the Client catalog.
type Service struct {
	*domain.CatalogService[*Client]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Client service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "client",
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
func (s *Service) prepareForCreate(ctx context.Context, c *Client) error {
	if c.Code == "" {
		cfg := numerator.DefaultConfig("CL")
		cfg.Scope = c.GetBusinessID()
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	return s.checkNameUnique(ctx, c)
}

// checkNameUnique rejects a duplicate client name within the tenant.
func (s *Service) checkNameUnique(ctx context.Context, c *Client) error {
	existing, err := s.repo.FindByName(ctx, c.BusinessID, c.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewConflict("client with this name already exists").
			WithDetail("name", c.Name)
	}
	return nil
}
