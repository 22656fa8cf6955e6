package auth_test

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	auth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func hashedUser(t *testing.T, username, password string, roles ...string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := activeUser(username, roles...)
	user.PasswordHash = hash
	return user
}

func TestUserProviderLookupUser(t *testing.T) {
	ctx := context.Background()

	t.Run("matching credential", func(t *testing.T) {
		finder := new(MockUserFinder)
		provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})

		user := hashedUser(t, "alice", "password123", "admin")
		finder.On("GetByUsername", ctx, "alice").Return(user, nil).Once()

		found, err := provider.LookupUser(ctx, "alice", "password123")
		require.NoError(t, err)
		assert.Same(t, user, found)
		finder.AssertExpectations(t)
	})

	t.Run("wrong credential resolves to no user", func(t *testing.T) {
		finder := new(MockUserFinder)
		provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})

		user := hashedUser(t, "alice", "password123")
		finder.On("GetByUsername", ctx, "alice").Return(user, nil).Once()

		found, err := provider.LookupUser(ctx, "alice", "nope")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("not found variants resolve to no user", func(t *testing.T) {
		notFound := []error{
			auth.ErrUserNotFound,
			repository.NewRecordNotFound(),
			goerrors.New("missing", goerrors.CategoryNotFound),
		}

		for _, storeErr := range notFound {
			finder := new(MockUserFinder)
			provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})
			finder.On("GetByUsername", ctx, "ghost").Return(nil, storeErr).Once()

			found, err := provider.LookupUser(ctx, "ghost", "pw")
			assert.NoError(t, err, "store error %v", storeErr)
			assert.Nil(t, found)
		}
	})

	t.Run("nil user without error", func(t *testing.T) {
		finder := new(MockUserFinder)
		provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})
		finder.On("GetByUsername", ctx, "ghost").Return(nil, nil).Once()

		found, err := provider.LookupUser(ctx, "ghost", "pw")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		finder := new(MockUserFinder)
		provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})

		storeErr := errors.New("connection refused")
		finder.On("GetByUsername", ctx, "alice").Return(nil, storeErr).Once()

		found, err := provider.LookupUser(ctx, "alice", "pw")
		assert.Nil(t, found)
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)
	})

	t.Run("tracker records successful lookups", func(t *testing.T) {
		finder := new(MockTrackingUserFinder)
		provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})

		user := hashedUser(t, "alice", "password123")
		finder.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		finder.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

		found, err := provider.LookupUser(ctx, "alice", "password123")
		require.NoError(t, err)
		assert.Same(t, user, found)
		finder.AssertExpectations(t)
	})

	t.Run("tracker failure is logged only", func(t *testing.T) {
		finder := new(MockTrackingUserFinder)
		logger := new(MockLogger)
		provider := auth.NewUserProvider(finder).WithLogger(logger)

		user := hashedUser(t, "alice", "password123")
		finder.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		finder.On("TrackSuccessfulLogin", ctx, user).Return(errors.New("write failed")).Once()
		logger.On("Error", "failed to track successful login: %v", mock.Anything).Once()

		found, err := provider.LookupUser(ctx, "alice", "password123")
		require.NoError(t, err)
		assert.Same(t, user, found)
		logger.AssertExpectations(t)
	})

	t.Run("tracker not called for inactive users", func(t *testing.T) {
		finder := new(MockTrackingUserFinder)
		provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})

		user := hashedUser(t, "frozen", "password123")
		user.Active = false
		finder.On("GetByUsername", ctx, "frozen").Return(user, nil).Once()

		found, err := provider.LookupUser(ctx, "frozen", "password123")
		require.NoError(t, err)
		assert.Same(t, user, found)
		finder.AssertNotCalled(t, "TrackSuccessfulLogin", mock.Anything, mock.Anything)
	})

	t.Run("tracker not called on mismatch", func(t *testing.T) {
		finder := new(MockTrackingUserFinder)
		provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})

		user := hashedUser(t, "alice", "password123")
		finder.On("GetByUsername", ctx, "alice").Return(user, nil).Once()

		_, err := provider.LookupUser(ctx, "alice", "nope")
		require.NoError(t, err)
		finder.AssertNotCalled(t, "TrackSuccessfulLogin", mock.Anything, mock.Anything)
	})
}

func TestUserProviderWithAuthenticator(t *testing.T) {
	ctx := context.Background()
	finder := new(MockUserFinder)
	provider := auth.NewUserProvider(finder).WithLogger(nopLogger{})
	authenticator := newTestAuthenticator(t, provider, auth.NewOptions(testSigningKey))

	user := hashedUser(t, "alice", "password123", "admin", "user")
	finder.On("GetByUsername", ctx, "alice").Return(user, nil)

	identity, err := authenticator.AuthenticateCredentials(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username())
	assert.True(t, identity.HasAuthority("admin"))
	assert.NotEmpty(t, user.PasswordHash, "the stored record keeps its hash")

	again, err := authenticator.AuthenticateCredentials(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username())

	_, err = authenticator.AuthenticateCredentials(ctx, "alice", "wrong")
	requireDeniedWithCode(t, err, auth.TextCodeUserNotFound)
}
