// Package ratelimit throttles inbound requests with a process-wide token bucket.
package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	dErrors "credex/pkg/domain-errors"
	"credex/pkg/platform/httputil"
	"credex/pkg/platform/privacy"
	"credex/pkg/requestcontext"
)

// Middleware allows requestsPerSecond with the given burst. A non-positive rate disables it.
func Middleware(logger *slog.Logger, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				ctx := r.Context()
				logger.WarnContext(ctx, "rate limit exceeded",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
					"remote_addr_prefix", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
				)
				w.Header().Set("Retry-After", strconv.Itoa(1))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
