package auth

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeUserNotFound        = "USER_NOT_FOUND"
	TextCodeUserInactive        = "USER_INACTIVE"
	TextCodeEmptyUsername       = "EMPTY_USERNAME"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
	TextCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	TextCodeLookupFailed        = "USER_LOOKUP_FAILED"
	TextCodeTokenSigningFailed  = "TOKEN_SIGNING_FAILED"
	TextCodeInvalidSignature    = "TOKEN_SIGNATURE_INVALID"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeMalformedClaims     = "TOKEN_CLAIMS_MALFORMED"
	TextCodeUnsupportedRequest  = "UNSUPPORTED_AUTH_REQUEST"
	TextCodeInvalidConfig       = "INVALID_AUTH_CONFIG"
	accessDeniedMessage         = "access denied"
	textCodeMetadataKey         = "text_code"
	errorMetadataKey            = "error"
	defaultUnknownErrorTextCode = "UNKNOWN"
)

// ErrAccessDenied is the only error kind callers of the authenticator see.
// Match it with errors.Is; the concrete value is an *AccessDeniedError.
var ErrAccessDenied = errors.New(accessDeniedMessage)

// ErrUserNotFound lookup returned no user for the given credentials
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrUserInactive user exists but is not allowed to authenticate
var ErrUserInactive = goerrors.New("user is not active", goerrors.CategoryAuth).
	WithTextCode(TextCodeUserInactive).
	WithCode(goerrors.CodeForbidden)

// ErrEmptyUsername credential request without a username
var ErrEmptyUsername = goerrors.New("username must not be empty", goerrors.CategoryBadInput).
	WithTextCode(TextCodeEmptyUsername).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString password to hash is empty
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword credential does not match the stored hash
var ErrMismatchedHashAndPassword = goerrors.New("credential does not match", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidSignature token signature does not verify with the shared secret
var ErrInvalidSignature = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidSignature).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed token could not be parsed
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired token exp claim is in the past
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrMalformedClaims required claims are missing or have the wrong shape
var ErrMalformedClaims = goerrors.New("token claims are malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeMalformedClaims).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnsupportedRequest the authenticator does not handle the request kind
var ErrUnsupportedRequest = goerrors.New("unsupported authentication request", goerrors.CategoryBadInput).
	WithTextCode(TextCodeUnsupportedRequest).
	WithCode(goerrors.CodeBadRequest)

// AccessDeniedError is returned for every authentication failure. The
// message never varies so callers can not tell an unknown user from a bad
// token. The cause does not take part in errors.Is or errors.As chains; it
// is only reachable through Cause, the Logger and the ActivitySink.
type AccessDeniedError struct {
	cause error
}

func (e *AccessDeniedError) Error() string {
	return accessDeniedMessage
}

// Is makes every AccessDeniedError match ErrAccessDenied.
func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

// Cause returns the internal failure, if any.
func (e *AccessDeniedError) Cause() error {
	return e.cause
}

// denyAccess is the single exit point for failed authentication attempts.
func denyAccess(cause error) error {
	return &AccessDeniedError{cause: cause}
}

// IsAccessDenied reports whether err is an authentication failure
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// CauseTextCode returns the text code of the internal cause of err, or
// UNKNOWN when the cause is not a categorized error.
func CauseTextCode(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode != "" {
		return richErr.TextCode
	}
	return defaultUnknownErrorTextCode
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if CauseTextCode(err) == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if CauseTextCode(err) == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}
