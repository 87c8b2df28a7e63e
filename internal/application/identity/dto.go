package identity

import "time"

// LoginInput contains the admin login form
type LoginInput struct {
	Username string
	Password string
	IP       string // for audit logging
}

// TokenResult is the token pair handed to the admin client
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	Username              string    `json:"username"`
	Role                  string    `json:"role"`
}

// CurrentAdmin describes the authenticated caller
type CurrentAdmin struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
