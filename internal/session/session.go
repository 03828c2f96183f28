package session

import "context"

// Principal is the authenticated identity cart and order operations run on
// behalf of.
type Principal string

// Session resolves the current principal. It is passed explicitly to the
// components that need it rather than living in package-level state.
type Session interface {
	Principal(ctx context.Context) (Principal, bool)
}

type ctxKey struct{}

// WithPrincipal stamps the principal onto the context. Used by the HTTP
// auth middleware.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// ContextSession reads the principal from the request context.
type ContextSession struct{}

func (ContextSession) Principal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

// StaticSession always answers with a fixed principal. Useful for embedded
// use and tests.
type StaticSession struct {
	P Principal
}

func (s StaticSession) Principal(context.Context) (Principal, bool) {
	if s.P == "" {
		return "", false
	}
	return s.P, true
}
