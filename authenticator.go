package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// TokenAuthenticator authenticates credential and token requests and issues
// HS512 signed tokens. It holds no mutable state and is safe for concurrent
// use.
type TokenAuthenticator struct {
	lookup       UserLookup
	config       Config
	tokenService TokenService
	validator    TokenValidator
	logger       Logger
	activitySink ActivitySink
}

var _ Authenticator = (*TokenAuthenticator)(nil)

// NewTokenAuthenticator returns a new TokenAuthenticator
func NewTokenAuthenticator(lookup UserLookup, opts Config) (*TokenAuthenticator, error) {
	if err := validateConfig(opts); err != nil {
		return nil, err
	}

	if lookup == nil {
		return nil, goerrors.New("user lookup is required", goerrors.CategoryValidation).
			WithTextCode(TextCodeInvalidConfig)
	}

	a := &TokenAuthenticator{
		lookup:       lookup,
		config:       opts,
		activitySink: noopActivitySink{},
	}

	return a.WithLogger(defLogger{}), nil
}

func (a *TokenAuthenticator) WithLogger(logger Logger) *TokenAuthenticator {
	if logger == nil {
		logger = defLogger{}
	}
	a.logger = logger
	// Update the TokenService logger as well
	tokenService := newTokenServiceFromConfig(a.config, logger)
	a.tokenService = tokenService
	a.validator = tokenService
	return a
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (a *TokenAuthenticator) WithActivitySink(sink ActivitySink) *TokenAuthenticator {
	a.activitySink = normalizeActivitySink(sink)
	return a
}

// TokenService returns the TokenService used to sign tokens
func (a *TokenAuthenticator) TokenService() TokenService {
	return a.tokenService
}

// Supports reports whether kind is a request this authenticator handles
func (a *TokenAuthenticator) Supports(kind RequestKind) bool {
	switch kind {
	case KindCredential, KindToken:
		return true
	default:
		return false
	}
}

// Authenticate dispatches on the request variant. Pointer variants are
// accepted; anything else is denied.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, req AuthRequest) (*AuthenticatedIdentity, error) {
	switch r := req.(type) {
	case CredentialRequest:
		return a.AuthenticateCredentials(ctx, r.Username, r.Credential)
	case TokenRequest:
		return a.AuthenticateToken(ctx, r.Token)
	case *CredentialRequest:
		if r != nil {
			return a.AuthenticateCredentials(ctx, r.Username, r.Credential)
		}
		return nil, a.fail(ctx, ActivityEventCredentialFailure, KindCredential, "", ErrUnsupportedRequest)
	case *TokenRequest:
		if r != nil {
			return a.AuthenticateToken(ctx, r.Token)
		}
		return nil, a.fail(ctx, ActivityEventTokenFailure, KindToken, "", ErrUnsupportedRequest)
	default:
		return nil, a.fail(ctx, ActivityEventCredentialFailure, "", "", ErrUnsupportedRequest)
	}
}

// AuthenticateCredentials looks up the user, checks it is active and mints a
// new token for it.
func (a *TokenAuthenticator) AuthenticateCredentials(ctx context.Context, username, credential string) (*AuthenticatedIdentity, error) {
	if username == "" {
		return nil, a.fail(ctx, ActivityEventCredentialFailure, KindCredential, username, ErrEmptyUsername)
	}

	user, err := a.lookup.LookupUser(ctx, username, credential)
	if err != nil {
		cause := goerrors.Wrap(err, goerrors.CategoryInternal, "user lookup failed").
			WithTextCode(TextCodeLookupFailed)
		return nil, a.fail(ctx, ActivityEventCredentialFailure, KindCredential, username, cause)
	}

	if user == nil {
		return nil, a.fail(ctx, ActivityEventCredentialFailure, KindCredential, username, ErrUserNotFound)
	}

	if !user.IsActive() {
		return nil, a.fail(ctx, ActivityEventCredentialFailure, KindCredential, username, ErrUserInactive)
	}

	// the lookup may hand out a shared record, erase on a copy
	record := *user
	claims := NewTokenClaims(&record)

	token, err := a.tokenService.SignClaims(claims)
	if err != nil {
		return nil, a.fail(ctx, ActivityEventCredentialFailure, KindCredential, username, err)
	}

	identity := NewAuthenticatedIdentity(claims.Username, claims.Roles, token)

	a.succeed(ctx, ActivityEventCredentialSuccess, KindCredential, identity)

	return identity, nil
}

// AuthenticateToken verifies token and returns the identity it carries. The
// token string is passed through unchanged.
func (a *TokenAuthenticator) AuthenticateToken(ctx context.Context, token string) (*AuthenticatedIdentity, error) {
	claims, err := a.validator.Validate(token)
	if err != nil {
		return nil, a.fail(ctx, ActivityEventTokenFailure, KindToken, "", err)
	}

	if claims == nil {
		return nil, a.fail(ctx, ActivityEventTokenFailure, KindToken, "", ErrMalformedClaims)
	}

	identity := NewAuthenticatedIdentity(claims.Username, claims.Roles, token)

	a.succeed(ctx, ActivityEventTokenSuccess, KindToken, identity)

	return identity, nil
}

func newTokenServiceFromConfig(cfg Config, logger Logger) *TokenServiceImpl {
	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		logger,
		WithRequiredExpiration(cfg.GetRequireExpiration()),
	)
}

func (a *TokenAuthenticator) fail(ctx context.Context, eventType ActivityEventType, kind RequestKind, username string, cause error) error {
	a.logger.Warn("authentication denied kind=%s username=%q code=%s: %v", kind, username, CauseTextCode(cause), cause)

	a.emit(ctx, ActivityEvent{
		EventType:   eventType,
		RequestKind: kind,
		Username:    username,
		Cause:       cause,
		Metadata: map[string]any{
			textCodeMetadataKey: CauseTextCode(cause),
			errorMetadataKey:    cause.Error(),
		},
	})

	return denyAccess(cause)
}

func (a *TokenAuthenticator) succeed(ctx context.Context, eventType ActivityEventType, kind RequestKind, identity *AuthenticatedIdentity) {
	a.logger.Debug("authentication granted kind=%s username=%q", kind, identity.Username())

	a.emit(ctx, ActivityEvent{
		EventType:   eventType,
		RequestKind: kind,
		Username:    identity.Username(),
		Metadata: map[string]any{
			"authorities": identity.Authorities().Strings(),
		},
	})
}

func (a *TokenAuthenticator) emit(ctx context.Context, event ActivityEvent) {
	sink := normalizeActivitySink(a.activitySink)

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		a.logger.Warn("activity sink record error: %v", err)
	}
}
