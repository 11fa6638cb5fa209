// Package requestid tags each request with an identifier that is echoed in the
// X-Request-ID response header and attached to logs and audit events.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"contactbook/pkg/requestcontext"
)

// Header is read from the request when present and always written to the response.
const Header = "X-Request-ID"

const maxLength = 128

// Middleware reuses a caller-supplied request ID or generates a new one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(Header))
		if requestID == "" || len(requestID) > maxLength {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
