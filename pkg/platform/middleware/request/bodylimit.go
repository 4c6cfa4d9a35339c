package request

import (
	"fmt"
	"net/http"
	"strconv"

	dErrors "credex/pkg/domain-errors"
	"credex/pkg/platform/httputil"
)

// BodyLimit caps request bodies at maxBytes and advertises the cap in X-Max-Request-Size.
// A declared Content-Length over the cap is rejected before the handler runs;
// bodies without one are cut off by http.MaxBytesReader and surface as 413 on decode.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				httputil.WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge,
					fmt.Sprintf("request body size (%d bytes) exceeds maximum allowed size (%d bytes)", r.ContentLength, maxBytes)))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
