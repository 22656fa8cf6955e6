package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the payload of every token this package signs and the shape
// it expects back when verifying.
type TokenClaims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// NewTokenClaims projects a user into token claims. The credential hash is
// erased from the user before anything is read from it.
func NewTokenClaims(user *User) *TokenClaims {
	user.EraseCredential()

	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)

	return &TokenClaims{
		Username: user.Username,
		Roles:    roles,
	}
}

// Validate is called by the jwt parser after the registered claims have been
// checked.
func (c *TokenClaims) Validate() error {
	if c.Username == "" {
		return ErrMalformedClaims
	}
	// roles decodes to nil only when the claim is absent or null
	if c.Roles == nil {
		return ErrMalformedClaims
	}
	return nil
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Authorities derived from the roles claim
func (c *TokenClaims) Authorities() Authorities {
	return AuthoritiesFromRoles(c.Roles)
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

var _ jwt.ClaimsValidator = (*TokenClaims)(nil)
