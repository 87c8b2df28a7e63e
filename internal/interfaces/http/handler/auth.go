package handler

import (
	"context"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/identity"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AdminSessionService issues and revokes admin tokens
type AdminSessionService interface {
	Login(ctx context.Context, input identity.LoginInput) (*identity.TokenResult, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.TokenResult, error)
	Logout(ctx context.Context, accessToken string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AdminSessionService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AdminSessionService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login godoc
// @ID           loginAdmin
// @Summary      Admin login
// @Description  Authenticate the administrator with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLoginResponse(result))
}

// RefreshToken godoc
// @ID           refreshAdminToken
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new token pair. The used refresh token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLoginResponse(result))
}

// Logout godoc
// @ID           logoutAdmin
// @Summary      Admin logout
// @Description  Revoke the current access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Basic auth sessions have nothing to revoke
	if token := middleware.BearerToken(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.Success(c, MessageData{Message: "Logged out successfully"})
}

// Me godoc
// @ID           getCurrentAdmin
// @Summary      Current admin
// @Description  Returns the authenticated administrator
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[AdminResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	admin := middleware.GetAdmin(c)
	if admin == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.Success(c, AdminResponse{Username: admin.Username, Role: admin.Role})
}
