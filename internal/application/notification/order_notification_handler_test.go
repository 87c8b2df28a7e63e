package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockOrderNotifier struct {
	created     []OrderCreatedNotification
	changed     []OrderStatusChangedNotification
	returnError error
}

func (m *mockOrderNotifier) NotifyOrderCreated(_ context.Context, n OrderCreatedNotification) error {
	m.created = append(m.created, n)
	return m.returnError
}

func (m *mockOrderNotifier) NotifyOrderStatusChanged(_ context.Context, n OrderStatusChangedNotification) error {
	m.changed = append(m.changed, n)
	return m.returnError
}

func newOrder(t *testing.T) *booking.Order {
	t.Helper()
	order, err := booking.NewOrder("+48 123 456 789", "ul. Długa 5, Gdańsk", "Leaking kitchen tap", "2030-03-14",
		[]string{"/uploads/photos/a.jpg", "/uploads/photos/b.png"})
	require.NoError(t, err)
	return order
}

func TestOrderNotificationHandler_EventTypes(t *testing.T) {
	h := NewOrderNotificationHandler(&mockOrderNotifier{}, zap.NewNop())
	assert.Equal(t, []string{booking.EventTypeOrderCreated, booking.EventTypeOrderStatusChanged}, h.EventTypes())
}

func TestOrderNotificationHandler_Handle(t *testing.T) {
	t.Run("order created", func(t *testing.T) {
		notifier := &mockOrderNotifier{}
		h := NewOrderNotificationHandler(notifier, zap.NewNop())
		order := newOrder(t)

		require.NoError(t, h.Handle(context.Background(), booking.NewOrderCreatedEvent(order)))

		require.Len(t, notifier.created, 1)
		n := notifier.created[0]
		assert.Equal(t, order.ID, n.OrderID)
		assert.Equal(t, order.ShortID(), n.ShortID)
		assert.Equal(t, "+48123456789", n.Phone)
		assert.Equal(t, "2030-03-14", n.SelectedDate)
		assert.Len(t, n.Photos, 2)
		assert.False(t, n.SubmittedAt.IsZero())
	})

	t.Run("status changed", func(t *testing.T) {
		notifier := &mockOrderNotifier{}
		h := NewOrderNotificationHandler(notifier, zap.NewNop())
		order := newOrder(t)

		ev := booking.NewOrderStatusChangedEvent(order, booking.OrderStatusNew, booking.OrderStatusInProgress)
		require.NoError(t, h.Handle(context.Background(), ev))

		require.Len(t, notifier.changed, 1)
		assert.Equal(t, booking.OrderStatusNew, notifier.changed[0].OldStatus)
		assert.Equal(t, booking.OrderStatusInProgress, notifier.changed[0].NewStatus)
	})

	t.Run("notifier failure is logged, not returned", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		notifier := &mockOrderNotifier{returnError: errors.New("telegram down")}
		h := NewOrderNotificationHandler(notifier, zap.New(core))

		require.NoError(t, h.Handle(context.Background(), booking.NewOrderCreatedEvent(newOrder(t))))
		assert.Equal(t, 1, logs.FilterMessage("failed to send order notification").Len())
	})

	t.Run("unexpected event", func(t *testing.T) {
		h := NewOrderNotificationHandler(&mockOrderNotifier{}, zap.NewNop())
		base := shared.NewBaseDomainEvent("Other", uuid.New())
		assert.Error(t, h.Handle(context.Background(), &base))
	})
}

func TestLoggingOrderNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLoggingOrderNotifier(zap.New(core))

	require.NoError(t, n.NotifyOrderCreated(context.Background(), OrderCreatedNotification{ShortID: "abcd1234", Phone: "+48123456789"}))
	require.NoError(t, n.NotifyOrderStatusChanged(context.Background(), OrderStatusChangedNotification{ShortID: "abcd1234"}))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "+48******789", logs.All()[0].ContextMap()["phone"])
}
