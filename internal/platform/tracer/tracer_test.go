package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := NewNoop().Start(ctx, SpanPipelineStep, String(AttrStep, "validate-request"))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(Bool(AttrTokenRotated, true))
	span.AddEvent("event")
	span.End(errors.New("ignored"))
}

func TestOTelTracer_WithInjectedTracer(t *testing.T) {
	tr := NewOTel(WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), SpanIssuanceSend, String(AttrVerifierDID, "did:key:z6Mk"))
	require.NotNil(t, ctx)
	span.SetAttributes(Int64(AttrHTTPStatus, 201))
	span.End(errors.New("boom"))
}

func TestToOTelAttributes(t *testing.T) {
	got := toOTelAttributes([]Attribute{
		String("s", "v"),
		Bool("b", true),
		Int64("i64", 7),
		{Key: "i", Value: 3},
		{Key: "f", Value: 1.5},
		Duration("d", 150*time.Millisecond),
		{Key: "skipped", Value: struct{}{}},
	})

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("s", "v"),
		attribute.Bool("b", true),
		attribute.Int64("i64", 7),
		attribute.Int("i", 3),
		attribute.Float64("f", 1.5),
		attribute.Int64("d", 150),
	}, got)
	assert.Nil(t, toOTelAttributes(nil))
}
