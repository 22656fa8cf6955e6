package auth

// RequestKind names the shape of an authentication request
type RequestKind string

const (
	// KindCredential is a username and credential pair
	KindCredential RequestKind = "credential"
	// KindToken is a previously issued signed token
	KindToken RequestKind = "token"
)

// AuthRequest is either a CredentialRequest or a TokenRequest.
type AuthRequest interface {
	Kind() RequestKind
	authRequest()
}

// CredentialRequest asks to authenticate a username and credential and mint
// a new token.
type CredentialRequest struct {
	Username   string
	Credential string
}

func (CredentialRequest) Kind() RequestKind { return KindCredential }
func (CredentialRequest) authRequest()      {}

// TokenRequest asks to authenticate a previously issued token.
type TokenRequest struct {
	Token string
}

func (TokenRequest) Kind() RequestKind { return KindToken }
func (TokenRequest) authRequest()      {}

var (
	_ AuthRequest = CredentialRequest{}
	_ AuthRequest = TokenRequest{}
)
