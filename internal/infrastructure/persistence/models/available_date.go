package models

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/calendar"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
)

// AvailableDateModel is the persistence model for calendar dates
type AvailableDateModel struct {
	Record
	Date        time.Time `gorm:"type:date;not null;uniqueIndex"`
	IsAvailable bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AvailableDateModel) TableName() string {
	return "available_dates"
}

// ToDomain converts the persistence model to a domain AvailableDate
func (m *AvailableDateModel) ToDomain() *calendar.AvailableDate {
	return &calendar.AvailableDate{
		BaseEntity:  m.entity(),
		Date:        valueobject.DayOf(m.Date).String(),
		IsAvailable: m.IsAvailable,
	}
}

// FromDomain populates the persistence model from a domain AvailableDate
func (m *AvailableDateModel) FromDomain(d *calendar.AvailableDate) {
	m.Record = recordOf(d.BaseEntity)
	m.Date = d.Day().Time()
	m.IsAvailable = d.IsAvailable
}

// AvailableDateModelFromDomain creates a new persistence model from a domain AvailableDate
func AvailableDateModelFromDomain(d *calendar.AvailableDate) *AvailableDateModel {
	m := &AvailableDateModel{}
	m.FromDomain(d)
	return m
}
