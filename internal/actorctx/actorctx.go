// Package actorctx carries the authenticated caller on a context.Context.
package actorctx

import (
	"context"

	"github.com/chamalog/chamalog/internal/domain/user"
)

type ctxKey struct{}

type Identity struct {
	UserID  int64
	Email   string
	Role    user.Role
	Version int
}

func With(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func From(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKey{}).(Identity)

	return v, ok && v.UserID > 0
}
