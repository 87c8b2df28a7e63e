package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/identity"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Admin context keys
const (
	AdminKey      = "admin"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AdminAuthenticator resolves the caller of an admin endpoint
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*identity.CurrentAdmin, error)
	AuthenticateBasic(username, password string) (*identity.CurrentAdmin, error)
}

// AdminAuthConfig holds configuration for the admin middleware
type AdminAuthConfig struct {
	Authenticator AdminAuthenticator
	// AllowBasicAuth additionally accepts HTTP Basic with the admin credentials
	AllowBasicAuth bool
	Logger         *zap.Logger
}

// AdminAuth requires a valid admin bearer token (or Basic credentials when enabled)
func AdminAuth(cfg AdminAuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		header := c.GetHeader(AuthHeaderKey)

		var (
			admin *identity.CurrentAdmin
			err   error
		)
		switch {
		case header == "":
			err = identity.ErrInvalidCredentials
		case strings.HasPrefix(header, BearerPrefix):
			token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
			if token == "" {
				err = identity.ErrTokenInvalid
				break
			}
			admin, err = cfg.Authenticator.Authenticate(ctx, token)
		case cfg.AllowBasicAuth:
			username, password, ok := c.Request.BasicAuth()
			if !ok {
				err = identity.ErrInvalidCredentials
				break
			}
			admin, err = cfg.Authenticator.AuthenticateBasic(username, password)
		default:
			err = identity.ErrTokenInvalid
		}

		if err != nil {
			logger.FromContext(ctx, log).Warn("Admin authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortUnauthorized(c, err, cfg.AllowBasicAuth)
			return
		}

		c.Set(AdminKey, admin)
		reqLog := logger.FromContext(ctx, log).With(zap.String("admin", admin.Username))
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLog))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error, basic bool) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, message = dto.NormalizeErrorCode(domainErr.Code), domainErr.Message
	}
	if basic {
		c.Header("WWW-Authenticate", `Basic realm="admin"`)
	}
	dto.Abort(c, http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetAdmin returns the admin set by AdminAuth
func GetAdmin(c *gin.Context) *identity.CurrentAdmin {
	if v, ok := c.Get(AdminKey); ok {
		if admin, ok := v.(*identity.CurrentAdmin); ok {
			return admin
		}
	}
	return nil
}

// BearerToken extracts the raw token from the Authorization header
func BearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}
