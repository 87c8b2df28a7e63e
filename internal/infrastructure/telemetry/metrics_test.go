package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMeter(t *testing.T) (*MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)

	want := attribute.NewSet(attrs...)
	var total int64
	for _, dp := range sum.DataPoints {
		if len(attrs) == 0 || dp.Attributes.Equals(&want) {
			total += dp.Value
		}
	}
	return total
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestCounterAndHistogram(t *testing.T) {
	mp, reader := newTestMeter(t)
	meter := mp.Meter("test")
	ctx := context.Background()

	c, err := NewCounter(meter, "requests_total", "Requests", "{request}")
	require.NoError(t, err)
	c.Inc(ctx, AttrHTTPMethod.String("GET"))
	c.Add(ctx, 4, AttrHTTPMethod.String("GET"))
	c.Inc(ctx, AttrHTTPMethod.String("POST"))

	h, err := NewHistogram(meter, HistogramOpts{
		Name:       "latency_seconds",
		Unit:       "s",
		Boundaries: HTTPDurationBuckets,
	})
	require.NoError(t, err)
	h.RecordDuration(ctx, 30*time.Millisecond)
	h.Record(ctx, 2)

	data := collect(t, reader)
	assert.Equal(t, int64(5), sumOf(t, data["requests_total"], AttrHTTPMethod.String("GET")))
	assert.Equal(t, int64(1), sumOf(t, data["requests_total"], AttrHTTPMethod.String("POST")))

	hist, ok := data["latency_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, HTTPDurationBuckets, hist.DataPoints[0].Bounds)
}

type fakeStatusCounter struct {
	counts map[booking.OrderStatus]int64
	err    error
}

func (f fakeStatusCounter) CountByStatus(context.Context) (map[booking.OrderStatus]int64, error) {
	return f.counts, f.err
}

func TestNewBookingMetrics_NilMeter(t *testing.T) {
	bm, err := NewBookingMetrics(nil, nil, nil)
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Nil(t, bm)
}

func TestBookingMetrics_Record(t *testing.T) {
	mp, reader := newTestMeter(t)
	bm, err := NewBookingMetrics(mp.Meter("booking"), nil, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	bm.RecordOrderCreated(ctx)
	bm.RecordOrderCreated(ctx)
	bm.RecordStatusChange(ctx, booking.OrderStatusCompleted)
	bm.RecordCodeSent(ctx, "twilio", nil)
	bm.RecordCodeSent(ctx, "twilio", errors.New("boom"))
	bm.RecordVerification(ctx, "verified")
	bm.RecordNotification(ctx, nil)
	bm.RecordJob(ctx, "calendar_horizon", time.Second, nil)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["booking_orders_created_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["booking_order_status_changes_total"],
		AttrOrderStatus.String("completed")))
	assert.Equal(t, int64(1), sumOf(t, data["booking_sms_codes_sent_total"],
		AttrSMSProvider.String("twilio"), AttrOutcome.String("error")))
	assert.Equal(t, int64(1), sumOf(t, data["booking_phone_verifications_total"],
		AttrOutcome.String("verified")))
	assert.Equal(t, int64(1), sumOf(t, data["booking_notifications_total"]))
	assert.Contains(t, data, "booking_job_duration_seconds")
}

func TestBookingMetrics_NilReceiver(t *testing.T) {
	var bm *BookingMetrics
	assert.NotPanics(t, func() {
		bm.RecordOrderCreated(context.Background())
		bm.RecordStatusChange(context.Background(), booking.OrderStatusNew)
		bm.RecordJob(context.Background(), "x", time.Second, nil)
	})
}

func TestBookingMetrics_OrdersGauge(t *testing.T) {
	mp, reader := newTestMeter(t)
	counter := fakeStatusCounter{counts: map[booking.OrderStatus]int64{
		booking.OrderStatusNew:        3,
		booking.OrderStatusInProgress: 1,
	}}
	_, err := NewBookingMetrics(mp.Meter("booking"), counter, zap.NewNop())
	require.NoError(t, err)

	data := collect(t, reader)
	gauge, ok := data["booking_orders"].(metricdata.Gauge[int64])
	require.True(t, ok)

	got := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		v, _ := dp.Attributes.Value(AttrOrderStatus)
		got[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{
		"new":         3,
		"in_progress": 1,
		"completed":   0,
		"cancelled":   0,
	}, got)
}

func TestBookingMetrics_OrdersGaugeError(t *testing.T) {
	mp, reader := newTestMeter(t)
	_, err := NewBookingMetrics(mp.Meter("booking"), fakeStatusCounter{err: errors.New("db down")}, zap.NewNop())
	require.NoError(t, err)

	data := collect(t, reader)
	if g, ok := data["booking_orders"].(metricdata.Gauge[int64]); ok {
		assert.Empty(t, g.DataPoints)
	}
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "select", operationOf(`SELECT * FROM "orders"`))
	assert.Equal(t, "insert", operationOf("  insert into orders"))
	assert.Equal(t, "other", operationOf("PRAGMA foreign_keys"))
	assert.Equal(t, "other", operationOf(""))
}
