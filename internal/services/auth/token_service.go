package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
)

var (
	// ErrMissingToken is returned when no local session token was presented
	ErrMissingToken = errors.New("missing credential")
	// ErrInvalidToken covers bad signatures, bad algorithms, expiry and empty subjects
	ErrInvalidToken = errors.New("invalid credential")
)

// TokenService issues and verifies the local session token: an HS256 JWT
// carrying only the user id and an expiry
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(signingKey string) *TokenService {
	return &TokenService{
		secret: []byte(signingKey),
		now:    time.Now,
	}
}

// Issue signs a token for userID that expires at expiresAt
func (s *TokenService) Issue(userID string, expiresAt time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session signing key is not configured")
	}
	if userID == "" {
		return "", errors.New("user id is required")
	}

	claims := &models.SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a token and returns the user id it carries
func (s *TokenService) ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}
	if len(s.secret) == 0 {
		return "", ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
