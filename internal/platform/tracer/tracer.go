// Package tracer is a small tracing seam so services emit spans without
// importing OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: tests
//   - OTelTracer: OpenTelemetry adapter over the global provider
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanPipelineStep  = "pipeline.step"
	SpanIssuanceSend  = "issuance.send"
	SpanTokenRotation = "verifier.rotate_token"
)

// Attribute keys.
const (
	AttrPipeline     = "pipeline.name"
	AttrStep         = "pipeline.step"
	AttrStepIndex    = "pipeline.step_index"
	AttrVerifierDID  = "verifier.did"
	AttrHTTPStatus   = "http.status_code"
	AttrTokenRotated = "verifier.token_rotated"
)
