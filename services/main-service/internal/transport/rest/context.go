package rest

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/security"
)

type ctxKeyAuth struct{}

// AuthContext is the caller identity taken from a verified bearer token.
type AuthContext struct {
	UserID int64
	Role   security.Role
}

func (a AuthContext) IsAdmin() bool { return a.Role == security.RoleAdmin }

func withAuth(ctx context.Context, a AuthContext) context.Context {
	return context.WithValue(ctx, ctxKeyAuth{}, a)
}

func GetAuth(ctx context.Context) (AuthContext, bool) {
	a, ok := ctx.Value(ctxKeyAuth{}).(AuthContext)
	return a, ok
}
