package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator resolves an AuthRequest into an AuthenticatedIdentity
type Authenticator interface {
	Authenticate(ctx context.Context, req AuthRequest) (*AuthenticatedIdentity, error)
	Supports(kind RequestKind) bool
}

// UserLookup resolves a user from a username and credential pair.
// A nil user with a nil error means no user matched.
type UserLookup interface {
	LookupUser(ctx context.Context, username, credential string) (*User, error)
}

// UserLookupFunc adapts a function into a UserLookup.
type UserLookupFunc func(ctx context.Context, username, credential string) (*User, error)

// LookupUser satisfies the UserLookup interface.
func (f UserLookupFunc) LookupUser(ctx context.Context, username, credential string) (*User, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx, username, credential)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetRequireExpiration() bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
