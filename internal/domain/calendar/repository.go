package calendar

import (
	"context"

	"github.com/google/uuid"
)

// AvailableDateRepository defines persistence operations for calendar dates.
// Dates are passed and returned as YYYY-MM-DD strings.
type AvailableDateRepository interface {
	// FindByID finds a date entry, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*AvailableDate, error)

	// FindByDate finds the entry for a given day
	FindByDate(ctx context.Context, date string) (*AvailableDate, error)

	// FindAvailableFrom lists open dates on or after the given day, ascending
	FindAvailableFrom(ctx context.Context, date string) ([]AvailableDate, error)

	// FindAll lists every date, ascending
	FindAll(ctx context.Context) ([]AvailableDate, error)

	// ExistingDates returns which of the given days already have an entry
	ExistingDates(ctx context.Context, dates []string) (map[string]bool, error)

	// ExistsByDate checks whether a day already has an entry
	ExistsByDate(ctx context.Context, date string) (bool, error)

	// Save creates or updates a date entry
	Save(ctx context.Context, date *AvailableDate) error

	// SaveBatch creates several entries at once
	SaveBatch(ctx context.Context, dates []*AvailableDate) error

	// Delete removes an entry
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteBefore removes entries strictly before the given day and returns how many were removed
	DeleteBefore(ctx context.Context, date string) (int64, error)
}
