package auth

import "context"

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity sets the AuthenticatedIdentity in the given context
func WithIdentity(ctx context.Context, identity *AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the identity from the context.
func IdentityFromContext(ctx context.Context) (*AuthenticatedIdentity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*AuthenticatedIdentity)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// HasAuthority is a convenience function to check an authority directly from
// the context
func HasAuthority(ctx context.Context, authority string) bool {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return false
	}
	return identity.HasAuthority(authority)
}
