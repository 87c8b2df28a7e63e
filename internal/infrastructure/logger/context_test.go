package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("no logger returns nop", func(t *testing.T) {
		l := FromContext(context.Background())
		assert.NotNil(t, l)
	})

	t.Run("fallback gets request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx := context.WithValue(context.Background(), requestIDKey, "req-1")

		FromContext(ctx, zap.New(core)).Info("hello")
		assert.Equal(t, "req-1", recorded.All()[0].ContextMap()["request_id"])
	})

	t.Run("stored logger wins", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		other, otherLogs := observer.New(zapcore.InfoLevel)
		ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-2")

		FromContext(ctx, zap.New(other)).Info("hello")
		assert.Equal(t, 1, recorded.Len())
		assert.Equal(t, 0, otherLogs.Len())
		assert.Equal(t, "req-2", GetRequestID(ctx))
	})

	t.Run("trace ids attached", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{1, 2, 3},
			SpanID:  trace.SpanID{4, 5, 6},
		})
		ctx := trace.ContextWithSpanContext(WithContext(context.Background(), zap.New(core)), sc)

		FromContext(ctx).Info("traced")
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
		assert.Equal(t, sc.SpanID().String(), fields["span_id"])
	})
}
