package testutil

import (
	"net/http"
	"time"

	"contactbook/pkg/requestcontext"
)

// WithToday pins the request-scoped clock, which drives the birthday window.
func WithToday(req *http.Request, today time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), today))
}

// WithRequestID simulates the request ID middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// MustDate parses a DD-MM-YYYY date in UTC and panics on malformed input.
func MustDate(s string) time.Time {
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		panic(err)
	}
	return t
}
