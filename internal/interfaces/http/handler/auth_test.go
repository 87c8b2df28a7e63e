package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/identity"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, input identity.LoginInput) (*identity.TokenResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.TokenResult), args.Error(1)
}

func (m *MockSessionService) Refresh(ctx context.Context, refreshToken string) (*identity.TokenResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.TokenResult), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func testTokenResult() *identity.TokenResult {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return &identity.TokenResult{
		AccessToken:           "access",
		RefreshToken:          "refresh",
		AccessTokenExpiresAt:  now.Add(15 * time.Minute),
		RefreshTokenExpiresAt: now.Add(7 * 24 * time.Hour),
		TokenType:             "Bearer",
		Username:              "admin",
		Role:                  "admin",
	}
}

func setupAuthHandler(admin *identity.CurrentAdmin) (*gin.Engine, *MockSessionService) {
	svc := new(MockSessionService)
	h := NewAuthHandler(svc)
	r := newTestRouter()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.RefreshToken)

	authed := r.Group("/api/auth", func(c *gin.Context) {
		if admin != nil {
			c.Set(middleware.AdminKey, admin)
		}
		c.Next()
	})
	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.Me)
	return r, svc
}

func TestAuthHandler_Login(t *testing.T) {
	r, svc := setupAuthHandler(nil)
	svc.On("Login", mock.Anything, mock.MatchedBy(func(in identity.LoginInput) bool {
		return in.Username == "admin" && in.Password == "secret" && in.IP != ""
	})).Return(testTokenResult(), nil)

	w := doJSON(r, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "secret"})

	assert.Equal(t, http.StatusOK, w.Code)
	var data LoginResponse
	decodeData(t, w, &data)
	assert.Equal(t, "access", data.Token.AccessToken)
	assert.Equal(t, "refresh", data.Token.RefreshToken)
	assert.Equal(t, "Bearer", data.Token.TokenType)
	assert.Equal(t, AdminResponse{Username: "admin", Role: "admin"}, data.Admin)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	r, svc := setupAuthHandler(nil)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, identity.ErrInvalidCredentials)

	w := doJSON(r, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "wrong"})
	resp := assertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	assert.Equal(t, "Invalid credentials", resp.Error.Message)

	w = doJSON(r, http.MethodPost, "/api/auth/login", `{"username":"admin"}`)
	assertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	svc.AssertNumberOfCalls(t, "Login", 1)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	r, svc := setupAuthHandler(nil)
	svc.On("Refresh", mock.Anything, "good").Return(testTokenResult(), nil)
	svc.On("Refresh", mock.Anything, "revoked").Return(nil, identity.ErrTokenRevoked)

	w := doJSON(r, http.MethodPost, "/api/auth/refresh", RefreshTokenRequest{RefreshToken: "good"})
	var data LoginResponse
	decodeData(t, w, &data)
	assert.Equal(t, "access", data.Token.AccessToken)

	w = doJSON(r, http.MethodPost, "/api/auth/refresh", RefreshTokenRequest{RefreshToken: "revoked"})
	assertError(t, w, http.StatusUnauthorized, dto.ErrCodeTokenRevoked)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("bearer token is revoked", func(t *testing.T) {
		r, svc := setupAuthHandler(&identity.CurrentAdmin{Username: "admin", Role: "admin"})
		svc.On("Logout", mock.Anything, "access").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer access")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var data MessageData
		decodeData(t, w, &data)
		assert.Equal(t, "Logged out successfully", data.Message)
		svc.AssertExpectations(t)
	})

	t.Run("basic auth has nothing to revoke", func(t *testing.T) {
		r, svc := setupAuthHandler(&identity.CurrentAdmin{Username: "admin", Role: "admin"})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.SetBasicAuth("admin", "secret")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	r, _ := setupAuthHandler(&identity.CurrentAdmin{Username: "admin", Role: "admin"})
	var data AdminResponse
	decodeData(t, doJSON(r, http.MethodGet, "/api/auth/me", nil), &data)
	assert.Equal(t, AdminResponse{Username: "admin", Role: "admin"}, data)

	r, _ = setupAuthHandler(nil)
	assertError(t, doJSON(r, http.MethodGet, "/api/auth/me", nil), http.StatusUnauthorized, dto.ErrCodeUnauthorized)
}
