// Package requestcontext carries request-scoped values (request ID, client metadata, request time)
// through context.Context so handlers, services and loggers agree on them.
package requestcontext

import (
	"context"
	"time"
)

type (
	contextKeyRequestID   struct{}
	contextKeyClientIP    struct{}
	contextKeyUserAgent   struct{}
	contextKeyRequestTime struct{}
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID, or "" outside an HTTP request.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyRequestID{}).(string); ok {
		return v
	}
	return ""
}

// WithClientMetadata stores the resolved client IP and raw User-Agent in the context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

// ClientIP returns the client IP resolved by the metadata middleware.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return v
	}
	return ""
}

// UserAgent returns the raw User-Agent captured by the metadata middleware.
func UserAgent(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyUserAgent{}).(string); ok {
		return v
	}
	return ""
}

// WithTime injects a specific time into a context.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
