package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Active        bool       `bun:"is_active,notnull" json:"active"`
	Roles         []string   `bun:"roles" json:"roles"`
	LoggedInAt    *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EraseCredential clears the password hash so the record can be encoded.
func (u *User) EraseCredential() *User {
	if u != nil {
		u.PasswordHash = ""
	}
	return u
}

// IsActive reports whether the user may authenticate
func (u *User) IsActive() bool {
	return u != nil && u.Active
}

// AuthenticatedIdentity is the result of a successful authentication.
// It is built once and never mutated.
type AuthenticatedIdentity struct {
	username    string
	authorities Authorities
	token       string
}

// NewAuthenticatedIdentity derives authorities from roles and binds them to
// the username and token.
func NewAuthenticatedIdentity(username string, roles []string, token string) *AuthenticatedIdentity {
	return &AuthenticatedIdentity{
		username:    username,
		authorities: AuthoritiesFromRoles(roles),
		token:       token,
	}
}

func (i *AuthenticatedIdentity) Username() string {
	return i.username
}

// Authorities returns a copy of the granted authorities
func (i *AuthenticatedIdentity) Authorities() Authorities {
	return i.authorities.clone()
}

func (i *AuthenticatedIdentity) Token() string {
	return i.token
}

// HasAuthority reports whether authority was granted
func (i *AuthenticatedIdentity) HasAuthority(authority string) bool {
	return i != nil && i.authorities.Has(authority)
}

// Authorities is an ordered set of authority strings.
type Authorities []string

// AuthoritiesFromRoles maps each role name to an authority of the same name,
// dropping duplicates and keeping first-seen order.
func AuthoritiesFromRoles(roles []string) Authorities {
	out := make(Authorities, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

// Has checks membership
func (a Authorities) Has(authority string) bool {
	for _, v := range a {
		if v == authority {
			return true
		}
	}
	return false
}

func (a Authorities) Len() int {
	return len(a)
}

// Strings returns the authorities as a plain slice
func (a Authorities) Strings() []string {
	return append([]string{}, a...)
}

func (a Authorities) clone() Authorities {
	return append(Authorities{}, a...)
}
