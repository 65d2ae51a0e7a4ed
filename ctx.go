package accounts

import "context"

var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithSessionContext sets the SessionStatus in the given context.
func WithSessionContext(ctx context.Context, status *SessionStatus) context.Context {
	return context.WithValue(ctx, sessionCtxKey, status)
}

// SessionFromContext finds the SessionStatus stashed by RequireSession.
func SessionFromContext(ctx context.Context) (*SessionStatus, bool) {
	status, ok := ctx.Value(sessionCtxKey).(*SessionStatus)
	return status, ok
}
