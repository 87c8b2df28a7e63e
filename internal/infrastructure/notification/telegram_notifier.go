package notification

import (
	"context"
	"fmt"
	"html"
	"io"
	"path"
	"strings"
	"time"

	appnotification "github.com/PLAYZONE-UA/zlota-raczka/internal/application/notification"
	"go.uber.org/zap"
)

// TelegramSender is the part of TelegramClient used by the notifier
type TelegramSender interface {
	SendMessage(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, filename string, photo io.Reader, caption string) error
}

// PhotoOpener opens a stored order photo by its reference
type PhotoOpener interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

const timeLayout = "2006-01-02 15:04"

// TelegramOrderNotifier formats order notifications and sends them to the handyman's chat
type TelegramOrderNotifier struct {
	sender   TelegramSender
	photos   PhotoOpener
	location *time.Location
	logger   *zap.Logger
}

// NewTelegramOrderNotifier creates a notifier; times are rendered in loc (UTC when nil)
func NewTelegramOrderNotifier(sender TelegramSender, photos PhotoOpener, loc *time.Location, logger *zap.Logger) *TelegramOrderNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &TelegramOrderNotifier{
		sender:   sender,
		photos:   photos,
		location: loc,
		logger:   logger,
	}
}

// NotifyOrderCreated sends the order summary followed by each photo.
// A photo that fails is logged and skipped.
func (n *TelegramOrderNotifier) NotifyOrderCreated(ctx context.Context, o appnotification.OrderCreatedNotification) error {
	if err := n.sender.SendMessage(ctx, FormatOrderCreated(o, n.location)); err != nil {
		return err
	}

	total := len(o.Photos)
	for i, ref := range o.Photos {
		caption := fmt.Sprintf("Photo %d/%d - Order #%s", i+1, total, o.ShortID)
		if err := n.sendPhoto(ctx, ref, caption); err != nil {
			n.logger.Warn("failed to send order photo",
				zap.String("order_id", o.OrderID.String()),
				zap.Int("photo", i+1),
				zap.Error(err),
			)
		}
	}
	return nil
}

// NotifyOrderStatusChanged sends a one-line status change message
func (n *TelegramOrderNotifier) NotifyOrderStatusChanged(ctx context.Context, o appnotification.OrderStatusChangedNotification) error {
	return n.sender.SendMessage(ctx, FormatStatusChanged(o, n.location))
}

func (n *TelegramOrderNotifier) sendPhoto(ctx context.Context, ref, caption string) error {
	rc, err := n.photos.Open(ctx, ref)
	if err != nil {
		return err
	}
	defer rc.Close()
	return n.sender.SendPhoto(ctx, path.Base(ref), rc, caption)
}

// FormatOrderCreated renders the HTML message for a new order
func FormatOrderCreated(o appnotification.OrderCreatedNotification, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 <b>New order #%s</b>\n\n", html.EscapeString(o.ShortID))
	fmt.Fprintf(&b, "📱 <b>Phone:</b> %s\n", html.EscapeString(o.Phone))
	fmt.Fprintf(&b, "📍 <b>Address:</b> %s\n", html.EscapeString(o.Address))
	fmt.Fprintf(&b, "📅 <b>Date:</b> %s\n\n", html.EscapeString(o.SelectedDate))
	fmt.Fprintf(&b, "📝 <b>Description:</b>\n%s\n\n", html.EscapeString(o.Description))
	fmt.Fprintf(&b, "📸 <b>Photos:</b> %d\n\n", len(o.Photos))
	fmt.Fprintf(&b, "⏰ <b>Submitted:</b> %s", o.SubmittedAt.In(loc).Format(timeLayout))
	return b.String()
}

// FormatStatusChanged renders the HTML message for a status change
func FormatStatusChanged(o appnotification.OrderStatusChangedNotification, loc *time.Location) string {
	return fmt.Sprintf("🔄 <b>Order #%s status:</b> %s → %s\n⏰ %s",
		html.EscapeString(o.ShortID),
		o.OldStatus.Label(),
		o.NewStatus.Label(),
		o.ChangedAt.In(loc).Format(timeLayout),
	)
}

var _ appnotification.OrderNotifier = (*TelegramOrderNotifier)(nil)
