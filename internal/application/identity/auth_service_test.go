package identity

import (
	"context"
	"testing"
	"time"

	"github.com/shopcraft/backend/internal/domain/identity"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/infrastructure/auth"
	"github.com/shopcraft/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newAuthTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "shopcraft-test",
		MaxRefreshCount:        10,
	})
}

func newAuthService(repo *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(repo, newAuthTestJWTService(), blacklist, DefaultAuthServiceConfig(), zap.NewNop())
	return svc, blacklist
}

func newActiveCustomer(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("customer@example.com", "password1")
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates active customer account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)

		repo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		info, err := svc.Register(context.Background(), RegisterInput{
			Email:     "new@example.com",
			Password:  "password1",
			FirstName: "Ada",
			LastName:  "Lovelace",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", info.Email)
		assert.Equal(t, "customer", info.Role)
		assert.Equal(t, "active", info.Status)
		assert.Equal(t, "Ada Lovelace", info.DisplayName)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)

		repo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Email:    "taken@example.com",
			Password: "password1",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)

		repo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Email:    "new@example.com",
			Password: "short",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("returns tokens on success", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)

		repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{
			Email:    user.Email,
			Password: "password1",
			IP:       "203.0.113.10",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, user.ID, result.User.ID)
		assert.Equal(t, "customer", result.User.Role)
		require.NotNil(t, user.LastLoginAt)
		assert.Equal(t, "203.0.113.10", user.LastLoginIP)
	})

	t.Run("unknown email yields invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)

		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "password1",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
	})

	t.Run("wrong password records failed attempt", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)

		repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    user.Email,
			Password: "wrongpass1",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("locks account after max failed attempts", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)
		user.FailedAttempts = 4 // one away from the default limit of 5

		repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    user.Email,
			Password: "wrongpass1",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "locked")
		assert.True(t, user.IsLocked())
	})

	t.Run("rejects locked account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)
		require.NoError(t, user.Lock(time.Hour))

		repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    user.Email,
			Password: "password1",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "locked")
	})

	t.Run("allows login after lock expires", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)
		require.NoError(t, user.Lock(time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{
			Email:    user.Email,
			Password: "password1",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)
		require.NoError(t, user.Deactivate())

		repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    user.Email,
			Password: "password1",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "deactivated")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	login := func(t *testing.T, svc *AuthService, repo *MockUserRepository, user *identity.User) *LoginResult {
		t.Helper()
		repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)
		result, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "password1"})
		require.NoError(t, err)
		return result
	}

	t.Run("rotates token pair", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)
		result := login(t, svc, repo, user)

		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		refreshed, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: result.RefreshToken})

		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, result.RefreshToken, refreshed.RefreshToken)
	})

	t.Run("rejects refresh for deactivated account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)
		result := login(t, svc, repo, user)

		require.NoError(t, user.Deactivate())
		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: result.RefreshToken})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no longer active")
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)

		_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "not-a-token"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid refresh token")
	})

	t.Run("rejects tokens issued before force logout", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, blacklist := newAuthService(repo)
		user := newActiveCustomer(t)
		result := login(t, svc, repo, user)

		require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), user.ID.String(), time.Hour))
		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: result.RefreshToken})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "revoked")
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("blacklists the access token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, blacklist := newAuthService(repo)
		user := newActiveCustomer(t)

		err := svc.Logout(context.Background(), LogoutInput{
			UserID:         user.ID,
			TokenJTI:       "token-jti-1",
			TokenExpiresAt: time.Now().Add(10 * time.Minute),
		})

		require.NoError(t, err)
		blocked, err := blacklist.IsBlacklisted(context.Background(), "token-jti-1")
		require.NoError(t, err)
		assert.True(t, blocked)
	})

	t.Run("expired token is a no-op", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, blacklist := newAuthService(repo)

		err := svc.Logout(context.Background(), LogoutInput{
			UserID:         uuid.New(),
			TokenJTI:       "stale-jti",
			TokenExpiresAt: time.Now().Add(-time.Minute),
		})

		require.NoError(t, err)
		blocked, err := blacklist.IsBlacklisted(context.Background(), "stale-jti")
		require.NoError(t, err)
		assert.False(t, blocked)
	})
}

func TestAuthService_ForceLogout(t *testing.T) {
	t.Run("admin revokes all sessions", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, blacklist := newAuthService(repo)
		admin, err := identity.NewAdminUser("admin@example.com", "password1")
		require.NoError(t, err)
		target := newActiveCustomer(t)

		repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)

		result, err := svc.ForceLogout(context.Background(), ForceLogoutInput{
			AdminUserID:  admin.ID,
			TargetUserID: target.ID,
			Reason:       "compromised credentials",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.Message)

		invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), target.ID.String(), time.Now().Add(-time.Second))
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("customer cannot force logout", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		customer := newActiveCustomer(t)

		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

		_, err := svc.ForceLogout(context.Background(), ForceLogoutInput{
			AdminUserID:  customer.ID,
			TargetUserID: uuid.New(),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Administrator access required")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("changes password with correct current password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)

		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "password1",
			NewPassword: "newpassword2",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("newpassword2"))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newAuthService(repo)
		user := newActiveCustomer(t)

		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "wrongpass1",
			NewPassword: "newpassword2",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Current password is incorrect")
		assert.True(t, user.VerifyPassword("password1"))
	})
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := newAuthService(repo)
	user := newActiveCustomer(t)
	require.NoError(t, user.SetName("Grace", "Hopper"))

	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	result, err := svc.GetCurrentUser(context.Background(), GetCurrentUserInput{UserID: user.ID})

	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, "Grace Hopper", result.User.DisplayName)
	assert.Equal(t, "customer", result.User.Role)
}
