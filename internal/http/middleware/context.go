package middlewarex

import (
	"context"

	"devcamper/internal/domain/user"
)

type ctxKey string

const (
	ctxUser ctxKey = "user"
)

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

// CurrentUser returns the user loaded by Protect.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(ctxUser).(*user.User)
	return u, ok && u != nil
}
