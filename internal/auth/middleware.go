package auth

import (
	"context"
	"net/http"
	"strings"

	"carshare/internal/booking"
)

type contextKey int

const actorKey contextKey = 0

// Middleware validates the Bearer token and stores the resulting actor in the
// request context. Handlers behind it can rely on ActorFromContext succeeding.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			actor, err := ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated actor stored by Middleware.
func ActorFromContext(ctx context.Context) (booking.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(booking.Actor)
	return actor, ok
}

// WithActor returns a context carrying the given actor. Used by tests.
func WithActor(ctx context.Context, actor booking.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
