package calendar

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
)

// MaxRangeDays caps how many days a single bulk operation may span
const MaxRangeDays = 366

// AvailableDate is a calendar day on which customers may book a visit
type AvailableDate struct {
	shared.BaseEntity
	Date        string
	IsAvailable bool
}

// NewAvailableDate creates a date entry. Days before today are rejected.
func NewAvailableDate(date string, isAvailable bool, today valueobject.Day) (*AvailableDate, error) {
	day, err := valueobject.ParseDay(date)
	if err != nil {
		return nil, err
	}
	if day.Before(today) {
		return nil, ErrPastDate
	}
	return &AvailableDate{
		BaseEntity:  shared.NewBaseEntity(),
		Date:        day.String(),
		IsAvailable: isAvailable,
	}, nil
}

// SetAvailability opens or closes the date for booking
func (d *AvailableDate) SetAvailability(available bool) {
	if d.IsAvailable == available {
		return
	}
	d.IsAvailable = available
	d.Touch()
}

// IsBooked reports whether the date is closed for new bookings
func (d *AvailableDate) IsBooked() bool {
	return !d.IsAvailable
}

// Day returns the parsed calendar day
func (d *AvailableDate) Day() valueobject.Day {
	day, _ := valueobject.ParseDay(d.Date)
	return day
}

// DateRange expands the inclusive range [start, end] into days,
// optionally leaving out Saturdays and Sundays.
func DateRange(start, end string, skipWeekends bool) ([]valueobject.Day, error) {
	from, err := valueobject.ParseDay(start)
	if err != nil {
		return nil, err
	}
	to, err := valueobject.ParseDay(end)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, ErrInvalidRange
	}
	if to.Time().Sub(from.Time()) > MaxRangeDays*24*time.Hour {
		return nil, ErrRangeTooLong
	}

	days := make([]valueobject.Day, 0, 32)
	for d := from; !d.After(to); d = d.AddDays(1) {
		if skipWeekends && d.IsWeekend() {
			continue
		}
		days = append(days, d)
	}
	return days, nil
}

// Domain errors specific to the calendar
var (
	ErrDateNotFound = shared.NewDomainError("NOT_FOUND", "Date not found")
	ErrDateExists   = shared.NewDomainError("ALREADY_EXISTS", "Date already exists. Use PATCH to update.")
	ErrPastDate     = shared.NewDomainError("PAST_DATE", "Cannot add dates from the past")
	ErrInvalidRange = shared.NewDomainError("INVALID_RANGE", "Start date must be before end date")
	ErrRangeTooLong = shared.NewDomainError("INVALID_RANGE", "Date range cannot exceed 366 days")
)
