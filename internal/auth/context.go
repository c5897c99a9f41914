package auth

import (
	"context"

	"github.com/tradepost/tradepost/internal/model"
)

// actorKey is unexported so no other package can collide with or
// overwrite the stored actor.
type actorKey struct{}

// ContextWithAuth returns a child context carrying the authenticated
// actor. Auth middleware is the only writer.
func ContextWithAuth(ctx context.Context, actor *model.AuthContext) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// AuthFromContext returns the actor on the request, or nil when the
// request never passed auth middleware.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	actor, _ := ctx.Value(actorKey{}).(*model.AuthContext)
	return actor
}

// MustAuthFromContext is AuthFromContext for routes mounted behind
// auth middleware. A missing actor means a route was registered
// without the middleware, which is a programming error, so it panics.
func MustAuthFromContext(ctx context.Context) *model.AuthContext {
	actor := AuthFromContext(ctx)
	if actor == nil {
		panic("route reached a handler without auth middleware")
	}
	return actor
}
