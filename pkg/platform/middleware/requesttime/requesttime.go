// Package requesttime provides middleware for request-scoped time.
// Every operation within one request sees the same "now", so the birthday
// window cannot straddle midnight mid-request.
package requesttime

import (
	"net/http"
	"time"

	"contactbook/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
// A time already present in the context (tests, the --today flag) is kept.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := ctx.Value(requestcontext.ContextKeyRequestTime).(time.Time); !ok {
			ctx = requestcontext.WithTime(ctx, time.Now())
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Fixed pins every request to now, as the serve command does with --today.
func Fixed(now time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), now)))
		})
	}
}
