package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromContext(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		wantOK   bool
	}{
		{
			name: "identity present",
			setupCtx: func() context.Context {
				identity := auth.NewAuthenticatedIdentity("bob", []string{"admin"}, "token")
				return auth.WithIdentity(context.Background(), identity)
			},
			wantOK: true,
		},
		{
			name:     "no identity",
			setupCtx: context.Background,
		},
		{
			name: "nil identity",
			setupCtx: func() context.Context {
				return auth.WithIdentity(context.Background(), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, ok := auth.IdentityFromContext(tt.setupCtx())
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, identity)
				return
			}
			require.NotNil(t, identity)
			assert.Equal(t, "bob", identity.Username())
		})
	}
}

func TestHasAuthority(t *testing.T) {
	identity := auth.NewAuthenticatedIdentity("bob", []string{"admin", "user"}, "token")
	ctx := auth.WithIdentity(context.Background(), identity)

	assert.True(t, auth.HasAuthority(ctx, "admin"))
	assert.True(t, auth.HasAuthority(ctx, "user"))
	assert.False(t, auth.HasAuthority(ctx, "owner"))
	assert.False(t, auth.HasAuthority(context.Background(), "admin"))
}
