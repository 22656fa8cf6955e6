package auth

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserFinder is a store we can use to retrieve users by username
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// LoginTracker is optionally implemented by a UserFinder to record
// successful lookups
type LoginTracker interface {
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider is a UserLookup backed by a UserFinder that checks the
// credential against the stored bcrypt hash.
type UserProvider struct {
	store  UserFinder
	logger Logger
}

var _ UserLookup = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserFinder) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// LookupUser returns the user when the credential matches. Unknown users and
// mismatched credentials both resolve to (nil, nil).
func (u *UserProvider) LookupUser(ctx context.Context, username, credential string) (*User, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) || errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during lookup")
	}

	if user == nil {
		return nil, nil
	}

	if err := ComparePasswordAndHash(credential, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			u.logger.Debug("credential mismatch for %q", username)
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare credential")
	}

	// inactive users are denied by the authenticator, do not stamp them
	if tracker, ok := u.store.(LoginTracker); ok && user.IsActive() {
		if err := tracker.TrackSuccessfulLogin(ctx, user); err != nil {
			u.logger.Error("failed to track successful login: %v", err)
		}
	}

	return user, nil
}
