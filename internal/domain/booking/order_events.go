package booking

import (
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for Order
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderCreatedEvent is published when a customer submits a new order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Description  string    `json:"description"`
	SelectedDate string    `json:"selected_date"`
	Photos       []string  `json:"photos"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, order.ID),
		OrderID:         order.ID,
		Phone:           order.Phone,
		Address:         order.Address,
		Description:     order.Description,
		SelectedDate:    order.SelectedDate,
		Photos:          append([]string(nil), order.Photos...),
	}
}

// OrderStatusChangedEvent is published when an administrator moves an order to another status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	Phone     string      `json:"phone"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, order.ID),
		OrderID:         order.ID,
		Phone:           order.Phone,
		OldStatus:       from,
		NewStatus:       to,
	}
}
