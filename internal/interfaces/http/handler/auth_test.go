package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appidentity "github.com/shopcraft/backend/internal/application/identity"
	"github.com/shopcraft/backend/internal/domain/identity"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/infrastructure/auth"
	"github.com/shopcraft/backend/internal/infrastructure/config"
	"github.com/shopcraft/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testJWTConfig returns a default JWT config for tests
func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

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

func createTestCustomer(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("customer@example.com", "Password123")
	require.NoError(t, err)
	require.NoError(t, user.SetName("Test", "Customer"))
	return user
}

func newAuthTestHandler(userRepo *MockUserRepository) (*AuthHandler, *auth.JWTService) {
	jwtService := auth.NewJWTService(testJWTConfig())
	authService := appidentity.NewAuthService(
		userRepo,
		jwtService,
		nil,
		appidentity.DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
	return NewAuthHandler(authService), jwtService
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("successful registration", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/register", handler.Register)

		body, _ := json.Marshal(RegisterRequest{
			Email:     "new@example.com",
			Password:  "Password123",
			FirstName: "New",
			LastName:  "Customer",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				User AuthUserResponse `json:"user"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "new@example.com", resp.Data.User.Email)
		assert.Equal(t, "customer", resp.Data.User.Role)
		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email returns conflict", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/register", handler.Register)

		body, _ := json.Marshal(RegisterRequest{
			Email:     "taken@example.com",
			Password:  "Password123",
			FirstName: "New",
			LastName:  "Customer",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid body returns bad request", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/register", handler.Register)

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"email":"not-an-email"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("successful login returns token pair", func(t *testing.T) {
		user := createTestCustomer(t)

		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "customer@example.com").Return(user, nil)
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/login", handler.Login)

		body, _ := json.Marshal(LoginRequest{
			Email:    "customer@example.com",
			Password: "Password123",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool          `json:"success"`
			Data    LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.Token.AccessToken)
		assert.NotEmpty(t, resp.Data.Token.RefreshToken)
		assert.Equal(t, "Bearer", resp.Data.Token.TokenType)
		assert.Equal(t, "customer@example.com", resp.Data.User.Email)
		userRepo.AssertExpectations(t)
	})

	t.Run("wrong password returns unauthorized", func(t *testing.T) {
		user := createTestCustomer(t)

		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "customer@example.com").Return(user, nil)
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/login", handler.Login)

		body, _ := json.Marshal(LoginRequest{
			Email:    "customer@example.com",
			Password: "WrongPass123",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email returns unauthorized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/login", handler.Login)

		body, _ := json.Marshal(LoginRequest{
			Email:    "ghost@example.com",
			Password: "Password123",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated account is rejected", func(t *testing.T) {
		user := createTestCustomer(t)
		require.NoError(t, user.Deactivate())

		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "customer@example.com").Return(user, nil)

		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/login", handler.Login)

		body, _ := json.Marshal(LoginRequest{
			Email:    "customer@example.com",
			Password: "Password123",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("valid refresh token returns new pair", func(t *testing.T) {
		user := createTestCustomer(t)

		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		handler, jwtService := newAuthTestHandler(userRepo)

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role.String(),
		})
		require.NoError(t, err)

		router := gin.New()
		router.POST("/auth/refresh", handler.RefreshToken)

		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: pair.RefreshToken})
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                 `json:"success"`
			Data    RefreshTokenResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Data.Token.AccessToken)
		assert.NotEmpty(t, resp.Data.Token.RefreshToken)
	})

	t.Run("garbage token returns unauthorized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		handler, _ := newAuthTestHandler(userRepo)

		router := gin.New()
		router.POST("/auth/refresh", handler.RefreshToken)

		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: "not-a-jwt"})
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the authenticated user", func(t *testing.T) {
		user := createTestCustomer(t)

		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		handler, jwtService := newAuthTestHandler(userRepo)

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role.String(),
		})
		require.NoError(t, err)

		router := gin.New()
		router.Use(middleware.JWTAuthMiddleware(jwtService))
		router.GET("/api/v1/auth/me", handler.GetCurrentUser)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                `json:"success"`
			Data    CurrentUserResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.Data.User.ID)
		assert.Equal(t, "customer@example.com", resp.Data.User.Email)
	})

	t.Run("missing token returns unauthorized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		handler, jwtService := newAuthTestHandler(userRepo)

		router := gin.New()
		router.Use(middleware.JWTAuthMiddleware(jwtService))
		router.GET("/api/v1/auth/me", handler.GetCurrentUser)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("changes the password", func(t *testing.T) {
		user := createTestCustomer(t)

		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		handler, jwtService := newAuthTestHandler(userRepo)

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role.String(),
		})
		require.NoError(t, err)

		router := gin.New()
		router.Use(middleware.JWTAuthMiddleware(jwtService))
		router.PUT("/api/v1/auth/password", handler.ChangePassword)

		body, _ := json.Marshal(ChangePasswordRequest{
			OldPassword: "Password123",
			NewPassword: "NewPassword456",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, user.VerifyPassword("NewPassword456"))
	})

	t.Run("wrong old password is rejected", func(t *testing.T) {
		user := createTestCustomer(t)

		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		handler, jwtService := newAuthTestHandler(userRepo)

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role.String(),
		})
		require.NoError(t, err)

		router := gin.New()
		router.Use(middleware.JWTAuthMiddleware(jwtService))
		router.PUT("/api/v1/auth/password", handler.ChangePassword)

		body, _ := json.Marshal(ChangePasswordRequest{
			OldPassword: "WrongPass123",
			NewPassword: "NewPassword456",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, http.StatusOK, w.Code)
	})
}
