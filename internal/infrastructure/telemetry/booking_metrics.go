package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BookingMetrics is built without a meter
var ErrMeterNil = errors.New("meter cannot be nil")

// OrderStatusCounter supplies the per-status order totals for the orders gauge
type OrderStatusCounter interface {
	CountByStatus(ctx context.Context) (map[booking.OrderStatus]int64, error)
}

// BookingMetrics holds the business instruments of the booking flow.
// A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	ordersCreated *Counter
	statusChanges *Counter
	codesSent     *Counter
	verifications *Counter
	notifications *Counter
	jobDuration   *Histogram
	logger        *zap.Logger
	countTimeout  time.Duration
}

// NewBookingMetrics creates the booking instruments. When orders is non-nil an
// observable gauge reports the number of orders in each status.
func NewBookingMetrics(meter metric.Meter, orders OrderStatusCounter, logger *zap.Logger) (*BookingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BookingMetrics{logger: logger, countTimeout: 5 * time.Second}
	var err error

	if bm.ordersCreated, err = NewCounter(meter, "booking_orders_created_total",
		"Orders submitted by customers", "{order}"); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = NewCounter(meter, "booking_order_status_changes_total",
		"Order status transitions by target status", "{change}"); err != nil {
		return nil, err
	}
	if bm.codesSent, err = NewCounter(meter, "booking_sms_codes_sent_total",
		"Verification codes handed to the SMS provider", "{message}"); err != nil {
		return nil, err
	}
	if bm.verifications, err = NewCounter(meter, "booking_phone_verifications_total",
		"Verification attempts by outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if bm.notifications, err = NewCounter(meter, "booking_notifications_total",
		"Operator notifications by outcome", "{notification}"); err != nil {
		return nil, err
	}
	if bm.jobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "booking_job_duration_seconds",
		Description: "Background maintenance job duration",
		Unit:        "s",
	}); err != nil {
		return nil, err
	}

	if orders != nil {
		if err := bm.observeOrders(meter, orders); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

func (bm *BookingMetrics) observeOrders(meter metric.Meter, orders OrderStatusCounter) error {
	gauge, err := meter.Int64ObservableGauge("booking_orders",
		metric.WithDescription("Orders currently in each status"),
		metric.WithUnit("{order}"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		ctx, cancel := context.WithTimeout(ctx, bm.countTimeout)
		defer cancel()

		counts, err := orders.CountByStatus(ctx)
		if err != nil {
			bm.logger.Warn("Failed to collect order counts", zap.Error(err))
			return nil
		}
		for _, status := range booking.AllOrderStatuses() {
			o.ObserveInt64(gauge, counts[status], metric.WithAttributes(AttrOrderStatus.String(string(status))))
		}
		return nil
	}, gauge)
	return err
}

// RecordOrderCreated counts a newly submitted order
func (bm *BookingMetrics) RecordOrderCreated(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.ordersCreated.Inc(ctx)
}

// RecordStatusChange counts a transition into status
func (bm *BookingMetrics) RecordStatusChange(ctx context.Context, status booking.OrderStatus) {
	if bm == nil {
		return
	}
	bm.statusChanges.Inc(ctx, AttrOrderStatus.String(string(status)))
}

// RecordCodeSent counts an SMS send attempt
func (bm *BookingMetrics) RecordCodeSent(ctx context.Context, provider string, err error) {
	if bm == nil {
		return
	}
	bm.codesSent.Inc(ctx, AttrSMSProvider.String(provider), AttrOutcome.String(outcomeOf(err)))
}

// RecordVerification counts a verify attempt; outcome is "verified" or an error code
func (bm *BookingMetrics) RecordVerification(ctx context.Context, outcome string) {
	if bm == nil {
		return
	}
	bm.verifications.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordNotification counts an operator notification
func (bm *BookingMetrics) RecordNotification(ctx context.Context, err error) {
	if bm == nil {
		return
	}
	bm.notifications.Inc(ctx, AttrOutcome.String(outcomeOf(err)))
}

// RecordJob records how long a maintenance job ran
func (bm *BookingMetrics) RecordJob(ctx context.Context, jobType string, d time.Duration, err error) {
	if bm == nil {
		return
	}
	bm.jobDuration.RecordDuration(ctx, d, AttrJobType.String(jobType), AttrOutcome.String(outcomeOf(err)))
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
