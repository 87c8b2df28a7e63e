package calendar

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/calendar"
	"github.com/google/uuid"
)

// DateResponse is a calendar entry as shown to clients
type DateResponse struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	IsAvailable bool      `json:"is_available"`
	IsBooked    bool      `json:"is_booked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToDateResponse converts a domain date
func ToDateResponse(d *calendar.AvailableDate) DateResponse {
	return DateResponse{
		ID:          d.ID,
		Date:        d.Date,
		IsAvailable: d.IsAvailable,
		IsBooked:    d.IsBooked(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToDateResponses converts a slice of domain dates
func ToDateResponses(dates []calendar.AvailableDate) []DateResponse {
	out := make([]DateResponse, len(dates))
	for i := range dates {
		out[i] = ToDateResponse(&dates[i])
	}
	return out
}

// BulkCreateInput describes a range of dates to open
type BulkCreateInput struct {
	StartDate    string
	EndDate      string
	SkipWeekends bool
}

// BulkCreateResult reports what a bulk operation did
type BulkCreateResult struct {
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}
