package handler

import "github.com/PLAYZONE-UA/zlota-raczka/internal/application/calendar"

// CreateDateRequest opens a single day for booking
// @Description Calendar day; is_available defaults to true
type CreateDateRequest struct {
	Date        string `json:"date" binding:"required,ymd" example:"2026-05-07"`
	IsAvailable *bool  `json:"is_available" example:"true"`
}

// BulkCreateDatesRequest opens a range of days
// @Description Inclusive date range; weekends are skipped unless skip_weekends is false
type BulkCreateDatesRequest struct {
	StartDate    string `json:"start_date" binding:"required,ymd" example:"2026-05-01"`
	EndDate      string `json:"end_date" binding:"required,ymd" example:"2026-05-31"`
	SkipWeekends *bool  `json:"skip_weekends" example:"true"`
}

// UpdateDateRequest toggles availability of a day
type UpdateDateRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required" example:"false"`
}

// DateResponse documents a calendar entry
type DateResponse = calendar.DateResponse

// BulkCreateDatesResponse documents the bulk result
type BulkCreateDatesResponse = calendar.BulkCreateResult

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
