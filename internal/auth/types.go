package auth

import (
	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RegisterRequest for username/email/password registration.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest for username/password authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// OAuth provider constants.
const (
	OAuthProviderGoogle = "google"
)
