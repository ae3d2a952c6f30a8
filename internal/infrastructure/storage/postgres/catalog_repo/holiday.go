package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"timebill/internal/core/id"
	"timebill/internal/domain/catalogs/holiday"
	"timebill/internal/infrastructure/storage/postgres"
)

const holidayTable = "cat_holidays"

// HolidayRepo implements holiday.Repository.
type HolidayRepo struct {
	*BaseCatalogRepo[*holiday.Holiday]
}

// NewHolidayRepo creates a new holiday repository.
func NewHolidayRepo(txManager *postgres.TxManager) *HolidayRepo {
	return &HolidayRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*holiday.Holiday](
			txManager,
			holidayTable,
			postgres.ExtractDBColumns[holiday.Holiday](),
			func() *holiday.Holiday { return &holiday.Holiday{} },
		),
	}
}

// ListByYear retrieves holidays of one calendar year within a tenant.
func (r *HolidayRepo) ListByYear(ctx context.Context, businessID id.ID, year int) ([]*holiday.Holiday, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Expr("EXTRACT(YEAR FROM date) = ?", year)).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("date ASC")

	return r.FindMany(ctx, q)
}
