package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/auth"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockTokenBlacklist is a mock implementation of auth.TokenBlacklist
type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}

func (m *MockTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		Issuer:                 "zlota-raczka-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
	})
}

func newService(t *testing.T, blacklist auth.TokenBlacklist, log *zap.Logger) *AuthService {
	t.Helper()
	creds, err := auth.NewAdminCredentials("admin", "s3cret-pass", "")
	require.NoError(t, err)
	if log == nil {
		log = zap.NewNop()
	}
	return NewAuthService(creds, newJWT(), blacklist, log)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newService(t, auth.NewInMemoryTokenBlacklist(), nil)

	result, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "s3cret-pass", IP: "127.0.0.1"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "admin", result.Username)
	assert.Equal(t, auth.RoleAdmin, result.Role)
	assert.True(t, result.RefreshTokenExpiresAt.After(result.AccessTokenExpiresAt))
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := newService(t, nil, zap.New(core))

	for _, input := range []LoginInput{
		{Username: "admin", Password: "wrong"},
		{Username: "root", Password: "s3cret-pass"},
		{},
	} {
		_, err := svc.Login(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, "Invalid credentials", err.Error())
	}
	assert.Equal(t, 3, logs.FilterMessage("Admin login failed").Len())
}

func TestAuthService_Refresh(t *testing.T) {
	svc := newService(t, auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, "admin", refreshed.Username)

	// the used refresh token is revoked
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// an access token is not accepted for refresh
	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc := newService(t, nil, nil)
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_Logout(t *testing.T) {
	blacklist := new(MockTokenBlacklist)
	svc := newService(t, blacklist, nil)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	blacklist.On("IsBlacklisted", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	admin, err := svc.Authenticate(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	blacklist.On("AddToBlacklist", mock.Anything, mock.AnythingOfType("string"),
		mock.MatchedBy(func(ttl time.Duration) bool { return ttl > 14*time.Minute && ttl <= 15*time.Minute }),
	).Return(nil)
	require.NoError(t, svc.Logout(ctx, login.AccessToken))

	blacklist.On("IsBlacklisted", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
	_, err = svc.Authenticate(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	blacklist.AssertExpectations(t)
}

func TestAuthService_Authenticate_BlacklistUnavailable(t *testing.T) {
	blacklist := new(MockTokenBlacklist)
	svc := newService(t, blacklist, nil)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	blacklist.On("IsBlacklisted", mock.Anything, mock.Anything).Return(false, errors.New("connection refused"))
	_, err = svc.Authenticate(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_Authenticate_Expired(t *testing.T) {
	svc := newService(t, nil, nil)
	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		Issuer:                 "zlota-raczka-test",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
	})
	pair, err := expired.GenerateTokenPair("admin", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthService_AuthenticateBasic(t *testing.T) {
	svc := newService(t, nil, nil)

	admin, err := svc.AuthenticateBasic("admin", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, &CurrentAdmin{Username: "admin", Role: auth.RoleAdmin}, admin)

	_, err = svc.AuthenticateBasic("admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
