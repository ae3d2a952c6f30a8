package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"timebill/internal/core/id"
	"timebill/internal/domain/catalogs/client"
	"timebill/internal/infrastructure/storage/postgres"
)

const clientTable = "cat_clients"

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txManager *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*client.Client](
			txManager,
			clientTable,
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
		),
	}
}

// FindByName retrieves a client by exact name within a tenant.
func (r *ClientRepo) FindByName(ctx context.Context, businessID id.ID, name string) (*client.Client, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
