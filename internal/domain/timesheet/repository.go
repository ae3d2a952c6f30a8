package timesheet

import (
	"context"
	"time"

	"timebill/internal/core/id"
	"timebill/internal/domain"
)

// ListFilter narrows timesheet queries for list and reporting surfaces.
type ListFilter struct {
	domain.ListFilter

	UserID   *id.ID
	ClientID *id.ID
	Status   *Status

	// Year/Month filter on start_date (0 means unset)
	Year  int
	Month int

	// Explicit period bounds on start_date
	DateFrom *time.Time
	DateTo   *time.Time
}

// DefaultListFilter returns sensible defaults ordered by period, newest first.
func DefaultListFilter() ListFilter {
	f := ListFilter{ListFilter: domain.DefaultListFilter()}
	f.OrderBy = "-start_date"
	return f
}

// Repository defines the interface for Timesheet persistence.
type Repository interface {
	// Create inserts the document row (entries saved separately)
	Create(ctx context.Context, ts *Timesheet) error

	// GetByID retrieves the document row without entries
	GetByID(ctx context.Context, id id.ID) (*Timesheet, error)

	// Update modifies the document row (with optimistic locking)
	Update(ctx context.Context, ts *Timesheet) error

	// HardDelete removes the document and cascades to its entries
	HardDelete(ctx context.Context, id id.ID) error

	// SaveEntries replaces the entry set wholesale (delete-all-then-recreate)
	SaveEntries(ctx context.Context, timesheetID id.ID, entries []Entry) error

	// GetEntries retrieves entries ordered by entry_date
	GetEntries(ctx context.Context, timesheetID id.ID) ([]Entry, error)

	// List retrieves documents with filtering and pagination
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Timesheet], error)

	// ListAll retrieves every document matching the filter without pagination.
	// Used by reporting folds.
	ListAll(ctx context.Context, filter ListFilter) ([]*Timesheet, error)
}
