// Package timesheet_repo provides the PostgreSQL implementation of the
// timesheet document repository.
package timesheet_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/domain"
	"timebill/internal/domain/timesheet"
	"timebill/internal/infrastructure/storage/postgres"
)

const (
	timesheetsTable       = "doc_timesheets"
	timesheetEntriesTable = "doc_timesheet_entries"
)

// TimesheetRepo implements timesheet.Repository.
type TimesheetRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewTimesheetRepo creates a new timesheet repository.
func NewTimesheetRepo(txManager *postgres.TxManager) *TimesheetRepo {
	return &TimesheetRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[timesheet.Timesheet](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *TimesheetRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *TimesheetRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *TimesheetRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(timesheetsTable)
}

// Create inserts the document row. Entries are saved separately.
func (r *TimesheetRepo) Create(ctx context.Context, ts *timesheet.Timesheet) error {
	data := postgres.StructToMap(ts)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in timesheet")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(timesheetsTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert timesheet: %w", err)
	}

	return nil
}

// GetByID retrieves the document row without entries.
func (r *TimesheetRepo) GetByID(ctx context.Context, tsID id.ID) (*timesheet.Timesheet, error) {
	ts := &timesheet.Timesheet{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": tsID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), ts, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("timesheet", tsID.String())
		}
		return nil, fmt.Errorf("get timesheet: %w", err)
	}

	return ts, nil
}

// Update modifies the document row with optimistic locking.
func (r *TimesheetRepo) Update(ctx context.Context, ts *timesheet.Timesheet) error {
	data := postgres.StructToMap(ts)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in timesheet")
	}

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("timesheet has no version field")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" || col == "created_by" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue // managed by repo
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(timesheetsTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ts.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update timesheet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("timesheet", ts.ID)
	}

	return nil
}

// HardDelete removes the document and its entries.
// Must run inside a transaction; the service wraps it.
func (r *TimesheetRepo) HardDelete(ctx context.Context, tsID id.ID) error {
	querier := r.querier(ctx)

	deleteEntries := "DELETE FROM " + timesheetEntriesTable + " WHERE timesheet_id = $1"
	if _, err := querier.Exec(ctx, deleteEntries, tsID); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	deleteDoc := "DELETE FROM " + timesheetsTable + " WHERE id = $1"
	result, err := querier.Exec(ctx, deleteDoc, tsID)
	if err != nil {
		return fmt.Errorf("delete timesheet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("timesheet", tsID.String())
	}

	return nil
}

// SaveEntries replaces the entry set wholesale (delete existing + insert new).
func (r *TimesheetRepo) SaveEntries(ctx context.Context, timesheetID id.ID, entries []timesheet.Entry) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + timesheetEntriesTable + " WHERE timesheet_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, timesheetID); err != nil {
		return fmt.Errorf("delete existing entries: %w", err)
	}

	if len(entries) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(timesheetEntriesTable).
		Columns(
			"line_id", "timesheet_id", "entry_date",
			"daily_hours", "extra_hours", "vacation_hours",
			"note", "client_rate_snapshot",
		)

	for _, e := range entries {
		q = q.Values(
			e.LineID, timesheetID, e.EntryDate,
			e.DailyHours, e.ExtraHours, e.VacationHours,
			e.Note, e.ClientRateSnapshot,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert entries: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	return nil
}

// GetEntries retrieves entries ordered by entry_date.
func (r *TimesheetRepo) GetEntries(ctx context.Context, timesheetID id.ID) ([]timesheet.Entry, error) {
	q := r.Builder().
		Select(
			"line_id", "entry_date",
			"daily_hours", "extra_hours", "vacation_hours",
			"note", "client_rate_snapshot",
		).
		From(timesheetEntriesTable).
		Where(squirrel.Eq{"timesheet_id": timesheetID}).
		OrderBy("entry_date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []timesheet.Entry
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}

	return entries, nil
}

// List retrieves documents with filtering and pagination.
func (r *TimesheetRepo) List(ctx context.Context, filter timesheet.ListFilter) (domain.ListResult[*timesheet.Timesheet], error) {
	result := domain.ListResult[*timesheet.Timesheet]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q, err := r.filteredSelect(filter)
	if err != nil {
		return result, err
	}

	// Count total (before pagination)
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list timesheets: %w", err)
	}

	return result, nil
}

// ListAll retrieves every document matching the filter without pagination.
func (r *TimesheetRepo) ListAll(ctx context.Context, filter timesheet.ListFilter) ([]*timesheet.Timesheet, error) {
	q, err := r.filteredSelect(filter)
	if err != nil {
		return nil, err
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return nil, err
	}
	q = q.OrderBy(orderBy)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*timesheet.Timesheet
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list all timesheets: %w", err)
	}

	return items, nil
}

func (r *TimesheetRepo) filteredSelect(filter timesheet.ListFilter) (squirrel.SelectBuilder, error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Scope != nil {
		q = q.Where(filter.Scope)
	}

	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.Year > 0 {
		q = q.Where(squirrel.Expr("EXTRACT(YEAR FROM start_date) = ?", filter.Year))
	}

	if filter.Month > 0 {
		q = q.Where(squirrel.Expr("EXTRACT(MONTH FROM start_date) = ?", filter.Month))
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"start_date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"start_date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	return q, nil
}

func (r *TimesheetRepo) parseOrderBy(orderBy string) (string, error) {
	allowed := map[string]struct{}{
		"number":     {},
		"start_date": {},
		"end_date":   {},
		"status":     {},
		"created_at": {},
		"updated_at": {},
	}

	if orderBy == "" {
		return "start_date DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	return field + " " + direction, nil
}
