// Package middleware provides HTTP middleware for the WhenPress server.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey is the context key for the request ID.
type requestIDKey struct{}

// RequestID mints a request ID and puts it in the request context and the
// X-Request-Id response header. The caller side of this API is anonymous
// device firmware and public browsers, not a trusted proxy tier, so an
// inbound X-Request-Id header is never adopted; the ID is always
// server-generated. It is the only correlation handle a device operator can
// quote when reporting a failed press, since problem responses echo it and
// nothing else about the request is ever logged.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := "req_" + uuid.New().String()[:22]
		w.Header().Set("X-Request-Id", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context. Returns "" outside
// the middleware chain.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
