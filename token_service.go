package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService signs and verifies tokens with a single shared secret.
type TokenService interface {
	Generate(username string, roles []string) (string, error)
	SignClaims(claims *TokenClaims) (string, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// SigningMethod is the only algorithm tokens are signed or accepted with.
var SigningMethod = jwt.SigningMethodHS512

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey        []byte
	tokenExpiration   int
	issuer            string
	requireExpiration bool
	parser            *jwt.Parser
	logger            Logger
}

// TokenServiceOption customizes a TokenServiceImpl
type TokenServiceOption func(*TokenServiceImpl)

// WithRequiredExpiration rejects tokens that carry no exp claim.
func WithRequiredExpiration(required bool) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.requireExpiration = required
	}
}

// NewTokenService creates a new TokenService instance. A tokenExpiration of
// zero hours issues tokens without an exp claim.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, logger Logger, opts ...TokenServiceOption) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	ts := &TokenServiceImpl{
		signingKey:      key,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          logger,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningMethod.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if ts.requireExpiration {
		parserOptions = append(parserOptions, jwt.WithExpirationRequired())
	}
	ts.parser = jwt.NewParser(parserOptions...)

	return ts
}

// Generate creates a signed token for username carrying roles
func (ts *TokenServiceImpl) Generate(username string, roles []string) (string, error) {
	claims := &TokenClaims{
		Username: username,
		Roles:    append([]string{}, roles...),
	}
	return ts.SignClaims(claims)
}

// SignClaims fills in the registered claims that are still empty and signs.
func (ts *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal).
			WithTextCode(TextCodeTokenSigningFailed)
	}

	if claims.Roles == nil {
		claims.Roles = []string{}
	}

	ts.applyDefaults(claims, time.Now())

	token := jwt.NewWithClaims(SigningMethod, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT").
			WithTextCode(TextCodeTokenSigningFailed)
	}

	return signedString, nil
}

// Validate parses and verifies a token string, returning its claims
func (ts *TokenServiceImpl) Validate(tokenString string) (*TokenClaims, error) {
	token, err := ts.parser.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		return ts.signingKey, nil
	})

	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrMalformedClaims
}

func (ts *TokenServiceImpl) applyDefaults(claims *TokenClaims, now time.Time) {
	if claims.Issuer == "" {
		claims.Issuer = ts.issuer
	}

	if claims.RegisteredClaims.IssuedAt == nil {
		claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	}

	if claims.ExpiresAt == nil && ts.tokenExpiration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour))
	}

	ensureTokenID(&claims.RegisteredClaims)
}

func classifyTokenError(err error) error {
	var base *goerrors.Error

	switch {
	case errors.Is(err, ErrMalformedClaims):
		base = ErrMalformedClaims
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		base = ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		base = ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidClaims), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		base = ErrMalformedClaims
	default:
		base = ErrTokenMalformed
	}

	return goerrors.Wrap(err, base.Category, base.Message).WithTextCode(base.TextCode)
}
