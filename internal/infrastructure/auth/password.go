package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong username or password
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a password with bcrypt at the default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// AdminCredentials checks the single administrator account
type AdminCredentials struct {
	username     string
	passwordHash []byte
}

// NewAdminCredentials builds the verifier from a bcrypt hash or, when the hash
// is empty, by hashing the clear text password once at startup
func NewAdminCredentials(username, password, passwordHash string) (*AdminCredentials, error) {
	if username == "" {
		return nil, errors.New("admin username is required")
	}
	if passwordHash == "" {
		if password == "" {
			return nil, errors.New("admin password or password hash is required")
		}
		h, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		passwordHash = h
	} else if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
	}
	return &AdminCredentials{username: username, passwordHash: []byte(passwordHash)}, nil
}

// Verify returns nil when username and password match the admin account.
// The bcrypt comparison runs even for a wrong username so timing does not
// reveal which part was wrong.
func (a *AdminCredentials) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Username returns the configured admin username
func (a *AdminCredentials) Username() string {
	return a.username
}
