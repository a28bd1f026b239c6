package auth

import "context"

type contextKey struct{}

type AuthContext struct {
	UserID    int64
	Username  string
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

type requestUserKey struct{}

// RequestUser is a mutable slot the request logger installs before routing.
// The auth middleware runs on a derived request, so a plain context value
// set there is invisible to the logger after the handler returns; filling a
// shared slot is.
type RequestUser struct {
	Username string
}

func WithRequestUser(ctx context.Context, u *RequestUser) context.Context {
	return context.WithValue(ctx, requestUserKey{}, u)
}

func RequestUserFromContext(ctx context.Context) *RequestUser {
	u, _ := ctx.Value(requestUserKey{}).(*RequestUser)
	return u
}
