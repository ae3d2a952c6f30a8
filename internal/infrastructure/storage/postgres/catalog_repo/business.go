package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"timebill/internal/domain/catalogs/business"
	"timebill/internal/infrastructure/storage/postgres"
)

const businessTable = "cat_businesses"

// BusinessRepo implements business.Repository.
type BusinessRepo struct {
	*BaseCatalogRepo[*business.Business]
}

// NewBusinessRepo creates a new business repository.
func NewBusinessRepo(txManager *postgres.TxManager) *BusinessRepo {
	return &BusinessRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*business.Business](
			txManager,
			businessTable,
			postgres.ExtractDBColumns[business.Business](),
			func() *business.Business { return &business.Business{} },
		),
	}
}

// FindByName retrieves a business by exact name.
func (r *BusinessRepo) FindByName(ctx context.Context, name string) (*business.Business, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
