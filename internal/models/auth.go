package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"Secret123"`
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email           string `json:"email" example:"jane@example.com"`
	Password        string `json:"password" example:"Secret123"`
	ConfirmPassword string `json:"confirmPassword" example:"Secret123"`
}

// AuthResponse is returned by login, signup and logout
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionStatusResponse tells the login and signup pages whether to skip ahead
type SessionStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	RedirectTo    string `json:"redirectTo,omitempty"`
}

// SessionClaims are the claims of the local session token. Only UserID is
// trusted by consumers.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// IssuedSession is a freshly created provider session plus its local token
type IssuedSession struct {
	Session    *Session
	Secret     string
	LocalToken string
	ExpiresAt  time.Time
}
