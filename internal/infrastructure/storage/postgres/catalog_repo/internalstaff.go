package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"timebill/internal/core/id"
	"timebill/internal/domain/catalogs/internalstaff"
	"timebill/internal/infrastructure/storage/postgres"
)

const internalUserTable = "cat_internal_users"

// InternalUserRepo implements internalstaff.Repository.
type InternalUserRepo struct {
	*BaseCatalogRepo[*internalstaff.InternalUser]
}

// NewInternalUserRepo creates a new internal user repository.
func NewInternalUserRepo(txManager *postgres.TxManager) *InternalUserRepo {
	return &InternalUserRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*internalstaff.InternalUser](
			txManager,
			internalUserTable,
			postgres.ExtractDBColumns[internalstaff.InternalUser](),
			func() *internalstaff.InternalUser { return &internalstaff.InternalUser{} },
		),
	}
}

// ListByType retrieves internal users of one commission role within a tenant.
func (r *InternalUserRepo) ListByType(ctx context.Context, businessID id.ID, staffType internalstaff.StaffType) ([]*internalstaff.InternalUser, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"type": staffType}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	return r.FindMany(ctx, q)
}
