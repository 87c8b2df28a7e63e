// Package notification forwards order events to the handyman's notification channel.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderNotifier delivers order notifications to a channel (Telegram, logs)
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, n OrderCreatedNotification) error
	NotifyOrderStatusChanged(ctx context.Context, n OrderStatusChangedNotification) error
}

// OrderCreatedNotification describes a newly submitted order
type OrderCreatedNotification struct {
	OrderID      uuid.UUID
	ShortID      string
	Phone        string
	Address      string
	Description  string
	SelectedDate string
	Photos       []string
	SubmittedAt  time.Time
}

// OrderStatusChangedNotification describes a status change made by the administrator
type OrderStatusChangedNotification struct {
	OrderID   uuid.UUID
	ShortID   string
	Phone     string
	OldStatus booking.OrderStatus
	NewStatus booking.OrderStatus
	ChangedAt time.Time
}

// OrderNotificationHandler handles OrderCreated and OrderStatusChanged events.
// Delivery failures are logged and never propagate to the request that raised the event.
type OrderNotificationHandler struct {
	notifier OrderNotifier
	logger   *zap.Logger
}

// NewOrderNotificationHandler creates a new handler for order events
func NewOrderNotificationHandler(notifier OrderNotifier, logger *zap.Logger) *OrderNotificationHandler {
	return &OrderNotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{booking.EventTypeOrderCreated, booking.EventTypeOrderStatusChanged}
}

// Handle processes order events
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *booking.OrderCreatedEvent:
		h.deliver(e.OrderID, e.EventType(), h.notifier.NotifyOrderCreated(ctx, OrderCreatedNotification{
			OrderID:      e.OrderID,
			ShortID:      booking.ShortOrderID(e.OrderID),
			Phone:        e.Phone,
			Address:      e.Address,
			Description:  e.Description,
			SelectedDate: e.SelectedDate,
			Photos:       e.Photos,
			SubmittedAt:  e.OccurredAt(),
		}))
	case *booking.OrderStatusChangedEvent:
		h.deliver(e.OrderID, e.EventType(), h.notifier.NotifyOrderStatusChanged(ctx, OrderStatusChangedNotification{
			OrderID:   e.OrderID,
			ShortID:   booking.ShortOrderID(e.OrderID),
			Phone:     e.Phone,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			ChangedAt: e.OccurredAt(),
		}))
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

func (h *OrderNotificationHandler) deliver(orderID uuid.UUID, eventType string, err error) {
	if err != nil {
		h.logger.Error("failed to send order notification",
			zap.String("order_id", orderID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	h.logger.Info("order notification sent",
		zap.String("order_id", orderID.String()),
		zap.String("event_type", eventType),
	)
}

var _ shared.EventHandler = (*OrderNotificationHandler)(nil)

// LoggingOrderNotifier writes notifications to the log; used when Telegram is disabled
type LoggingOrderNotifier struct {
	logger *zap.Logger
}

// NewLoggingOrderNotifier creates a new logging notifier
func NewLoggingOrderNotifier(logger *zap.Logger) *LoggingOrderNotifier {
	return &LoggingOrderNotifier{logger: logger}
}

// NotifyOrderCreated logs the new order
func (n *LoggingOrderNotifier) NotifyOrderCreated(_ context.Context, o OrderCreatedNotification) error {
	n.logger.Info("NEW ORDER",
		zap.String("order", o.ShortID),
		zap.String("phone", valueobject.MaskPhone(o.Phone)),
		zap.String("date", o.SelectedDate),
		zap.Int("photos", len(o.Photos)),
	)
	return nil
}

// NotifyOrderStatusChanged logs the status change
func (n *LoggingOrderNotifier) NotifyOrderStatusChanged(_ context.Context, o OrderStatusChangedNotification) error {
	n.logger.Info("ORDER STATUS CHANGED",
		zap.String("order", o.ShortID),
		zap.String("old_status", string(o.OldStatus)),
		zap.String("new_status", string(o.NewStatus)),
	)
	return nil
}

var _ OrderNotifier = (*LoggingOrderNotifier)(nil)
