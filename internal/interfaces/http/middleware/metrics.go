package middleware

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/telemetry"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	ServiceName   string
	Enabled       bool
	Logger        *zap.Logger
}

// booking forms carry up to five photos, so request sizes reach tens of MB
var (
	requestSizeBuckets  = []float64{100, 1e3, 1e4, 1e5, 1e6, 5e6, 1e7, 2.5e7, 5e7}
	responseSizeBuckets = []float64{100, 500, 1e3, 5e3, 1e4, 5e4, 1e5, 5e5, 1e6, 5e6}
)

type httpMetrics struct {
	requests     *telemetry.Counter
	errors       *telemetry.Counter
	duration     *telemetry.Histogram
	requestSize  *telemetry.Histogram
	responseSize *telemetry.Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	var (
		m   httpMetrics
		err error
	)
	if m.requests, err = telemetry.NewCounter(meter,
		"http_server_request_total", "Total number of HTTP requests", "{request}"); err != nil {
		return nil, err
	}
	if m.errors, err = telemetry.NewCounter(meter,
		"http_server_error_responses_total", "Error envelopes written, by error code", "{response}"); err != nil {
		return nil, err
	}
	if m.duration, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.requestSize, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "HTTP request body size distribution in bytes",
		Unit:        "By",
		Boundaries:  requestSizeBuckets,
	}); err != nil {
		return nil, err
	}
	if m.responseSize, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size distribution in bytes",
		Unit:        "By",
		Boundaries:  responseSizeBuckets,
	}); err != nil {
		return nil, err
	}
	if m.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, err
	}
	return &m, nil
}

func noop(c *gin.Context) { c.Next() }

// HTTPMetrics counts requests by method, route and status, records latency
// and body sizes, tracks in-flight requests and counts error envelopes by
// their error code.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return noop
	}
	m, err := newHTTPMetrics(cfg.MeterProvider.Meter("http.server"))
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return noop
	}
	return m.handler
}

// HTTPMetricsWithMeter is HTTPMetrics on an existing meter
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled {
		return noop
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return noop
	}
	return m.handler
}

func (m *httpMetrics) handler(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()
	in := c.Request.ContentLength

	m.inFlight.Add(ctx, 1)
	c.Next()
	m.inFlight.Add(ctx, -1)

	method := telemetry.AttrHTTPMethod.String(c.Request.Method)
	route := telemetry.AttrHTTPRoute.String(routePattern(c))

	m.requests.Inc(ctx, method, route, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
	m.duration.RecordDuration(ctx, time.Since(start), method, route)
	if in > 0 {
		m.requestSize.Record(ctx, float64(in), method, route)
	}
	if out := c.Writer.Size(); out > 0 {
		m.responseSize.Record(ctx, float64(out), method, route)
	}
	if code := dto.ErrorCode(c); code != "" {
		m.errors.Inc(ctx, route, telemetry.AttrErrorCode.String(code))
	}
}

// routePattern is the matched route ("/api/orders/:id") rather than the raw
// path, which keeps cardinality bounded.
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
