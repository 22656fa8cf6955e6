// Package auth authenticates username/credential pairs and previously issued
// tokens, and issues HS512 signed JWTs carrying username and role claims.
//
// Requests:
//   - CredentialRequest resolves a User through a UserLookup, rejects unknown
//     and inactive users, erases the credential hash and mints a new token.
//   - TokenRequest verifies a token with the shared secret and maps its
//     username and roles claims back to an AuthenticatedIdentity. The token is
//     returned unchanged.
//
// Errors:
//   - Every failure surfaces as an *AccessDeniedError matching ErrAccessDenied.
//     Its message is always "access denied"; the internal cause (unknown user,
//     inactive user, bad signature, malformed claims, lookup failure) is only
//     reachable through AccessDeniedError.Cause, the Logger and the
//     ActivitySink. It is not part of the errors.Is chain.
//
// Tokens:
//   - Payload is {"username", "roles", "jti", "iat"} plus "iss" and "exp" when
//     configured. Tokens issued with TokenExpiration set to 0 never expire.
//
// Storage:
//   - UserProvider implements UserLookup over any UserFinder, comparing
//     credentials with bcrypt. NewUsersRepository provides a bun backed store.
package auth
