// Package requesttime pins a single "now" per HTTP request so every timestamp
// written while serving it (createdAt, receivedAt, expiry defaults) agrees.
package requesttime

import (
	"net/http"
	"time"

	"credex/pkg/requestcontext"
)

// Middleware captures the time once at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock is Middleware with an injectable clock.
func WithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
