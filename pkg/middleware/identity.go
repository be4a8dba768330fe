package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chris/crypto-investments/pkg/lifecycle"
)

// Headers set by the upstream authenticator.
const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"

	RoleAdmin = "admin"
)

type actorKey struct{}

// Identity puts the caller named by the authenticator headers into the
// request context. Requests without a user id carry the zero Actor.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := lifecycle.Actor{
			UserID: strings.TrimSpace(r.Header.Get(UserIDHeader)),
		}
		if actor.UserID != "" {
			actor.Admin = strings.EqualFold(strings.TrimSpace(r.Header.Get(UserRoleHeader)), RoleAdmin)
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireUser rejects requests that reached it without a user id.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFrom(r.Context()).UserID == "" {
			http.Error(w, "missing "+UserIDHeader+" header", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithActor(ctx context.Context, actor lifecycle.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) lifecycle.Actor {
	actor, _ := ctx.Value(actorKey{}).(lifecycle.Actor)
	return actor
}
