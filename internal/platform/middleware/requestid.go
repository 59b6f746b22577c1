// Package middleware carries the HTTP middleware chain: request ids, request
// time, and actor identity extraction. Everything is threaded through the
// request context, never ambient state.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/requestcontext"
)

// RequestID attaches a request id to the context and echoes it back in the
// response. An incoming X-Request-ID is honored so ids stay stable across
// the gateway.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}

// RequestTime pins the wall-clock instant the request arrived, so age checks
// within one request all agree on "today".
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), time.Now())))
	})
}
