// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Values are set by middleware but consumed by services and by send tasks
// running on worker goroutines. Threading them through context keeps actor
// attribution explicit at every scheduling boundary instead of relying on
// ambient state.
//
// Usage in services (read values):
//
//	actor := requestcontext.Actor(ctx)
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithActor(ctx, actor)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
package requestcontext

import (
	"context"
	"time"
)

// Actor identifies who issued the request on behalf of which department.
// It is opaque to the core; downstream gateway calls carry it verbatim.
type ActorIdentity struct {
	UserID     string
	Department string
}

// Context key types (unexported for encapsulation).
type (
	actorKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Actor retrieves the actor identity from the context. Returns the zero
// value if not set.
func Actor(ctx context.Context) ActorIdentity {
	if actor, ok := ctx.Value(actorKey{}).(ActorIdentity); ok {
		return actor
	}
	return ActorIdentity{}
}

// WithActor injects an actor identity into the context.
func WithActor(ctx context.Context, actor ActorIdentity) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, tests). Age derivation uses
// this so a whole precheck batch sees one consistent "today".
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
