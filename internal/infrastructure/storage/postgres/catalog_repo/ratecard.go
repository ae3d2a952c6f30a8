package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"timebill/internal/core/id"
	"timebill/internal/domain/catalogs/ratecard"
	"timebill/internal/infrastructure/storage/postgres"
)

const rateCardTable = "cat_rate_cards"

// RateCardRepo implements ratecard.Repository.
type RateCardRepo struct {
	*BaseCatalogRepo[*ratecard.RateCard]
}

// NewRateCardRepo creates a new rate card repository.
func NewRateCardRepo(txManager *postgres.TxManager) *RateCardRepo {
	return &RateCardRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*ratecard.RateCard](
			txManager,
			rateCardTable,
			postgres.ExtractDBColumns[ratecard.RateCard](),
			func() *ratecard.RateCard { return &ratecard.RateCard{} },
		),
	}
}

// FindActiveByUser retrieves the single active card for (user, business).
// A partial unique index on (business_id, user_id) WHERE active guarantees
// at most one row.
func (r *RateCardRepo) FindActiveByUser(ctx context.Context, businessID, userID id.ID) (*ratecard.RateCard, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// ListByUser retrieves all cards for a consultant within a tenant.
func (r *RateCardRepo) ListByUser(ctx context.Context, businessID, userID id.ID) ([]*ratecard.RateCard, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code DESC")

	return r.FindMany(ctx, q)
}
