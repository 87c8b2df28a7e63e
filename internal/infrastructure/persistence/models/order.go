package models

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	VersionedRecord
	Phone        string              `gorm:"type:varchar(20);not null;index"`
	Address      string              `gorm:"type:varchar(255);not null"`
	Description  string              `gorm:"type:varchar(1000);not null"`
	SelectedDate time.Time           `gorm:"type:date;not null;index"`
	Photos       StringList          `gorm:"type:jsonb;not null;default:'[]'"`
	Status       booking.OrderStatus `gorm:"type:varchar(20);not null;default:'new'"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *booking.Order {
	photos := []string(m.Photos)
	if photos == nil {
		photos = []string{}
	}
	return &booking.Order{
		BaseAggregateRoot: m.aggregate(),
		Phone:             m.Phone,
		Address:           m.Address,
		Description:       m.Description,
		SelectedDate:      valueobject.DayOf(m.SelectedDate).String(),
		Photos:            photos,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Order.
// SelectedDate has been validated by the aggregate.
func (m *OrderModel) FromDomain(o *booking.Order) {
	m.VersionedRecord = versionedRecordOf(o.BaseAggregateRoot)
	m.Phone = o.Phone
	m.Address = o.Address
	m.Description = o.Description
	if d, err := valueobject.ParseDay(o.SelectedDate); err == nil {
		m.SelectedDate = d.Time()
	}
	m.Photos = StringList(o.Photos)
	m.Status = o.Status
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *booking.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
