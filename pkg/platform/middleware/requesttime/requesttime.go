// Package requesttime pins a single "now" per HTTP request. Every timestamp
// taken during the request (consent rows, log entries, vault updates) reads
// the same instant from the context, keeping related rows consistent.
package requesttime

import (
	"net/http"
	"time"

	"privacygate/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and stores
// it in the context via requestcontext.WithTime.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
