// Package identity authenticates the administrator of the booking panel.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/auth"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Authentication errors returned to the HTTP layer
var (
	ErrInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid credentials")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
)

// AuthService handles admin authentication
type AuthService struct {
	credentials *auth.AdminCredentials
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	now         func() time.Time
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service.
// blacklist may be nil, in which case logout only drops the client side tokens.
func NewAuthService(
	credentials *auth.AdminCredentials,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		jwtService:  jwtService,
		blacklist:   blacklist,
		now:         time.Now,
		logger:      logger,
	}
}

// Login checks the admin credentials and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenResult, error) {
	log := logger.FromContext(ctx, s.logger)

	if err := s.credentials.Verify(input.Username, input.Password); err != nil {
		log.Warn("Admin login failed", zap.String("username", input.Username), zap.String("ip", input.IP))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(s.credentials.Username(), auth.RoleAdmin)
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}

	log.Info("Admin logged in", zap.String("username", input.Username), zap.String("ip", input.IP))
	return toTokenResult(pair, s.credentials.Username(), auth.RoleAdmin), nil
}

// Refresh exchanges a refresh token for a new pair. The used refresh token is
// revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(claims.Username, claims.Role)
	if err != nil {
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}
	s.revoke(ctx, claims)

	return toTokenResult(pair, claims.Username, claims.Role), nil
}

// Logout revokes the access token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return tokenError(err)
	}
	s.revoke(ctx, claims)
	logger.FromContext(ctx, s.logger).Info("Admin logged out", zap.String("username", claims.Username))
	return nil
}

// Authenticate validates an access token for the admin middleware
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*CurrentAdmin, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}
	return &CurrentAdmin{Username: claims.Username, Role: claims.Role}, nil
}

// AuthenticateBasic checks HTTP Basic credentials against the admin account
func (s *AuthService) AuthenticateBasic(username, password string) (*CurrentAdmin, error) {
	if err := s.credentials.Verify(username, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &CurrentAdmin{Username: s.credentials.Username(), Role: auth.RoleAdmin}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, jti string) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, jti)
	if err != nil {
		// fail closed: an unreachable blacklist must not let revoked tokens in
		logger.FromContext(ctx, s.logger).Error("Failed to check token blacklist", zap.Error(err))
		return ErrTokenInvalid
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.blacklist == nil {
		return
	}
	ttl := claims.RemainingTTL(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to blacklist token",
			zap.String("jti", claims.ID), zap.Error(err))
	}
}

func tokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}

func toTokenResult(pair *auth.TokenPair, username, role string) *TokenResult {
	return &TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Username:              username,
		Role:                  role,
	}
}
