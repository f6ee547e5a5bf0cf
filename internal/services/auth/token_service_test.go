package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService("signing-key")

	token, err := svc.Issue("user-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenService_ClaimsShape(t *testing.T) {
	svc := NewTokenService("signing-key")
	token, err := svc.Issue("user-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["userId"])
	assert.Contains(t, claims, "iat")
	assert.Contains(t, claims, "exp")
	assert.Len(t, claims, 3)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("signing-key")

	t.Run("empty", func(t *testing.T) {
		_, err := svc.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Issue("user-1", time.Now().Add(-time.Minute))
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		token, err := NewTokenService("other-key").Issue("user-1", time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := &models.SessionClaims{
			UserID:           "user-1",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("signing-key"))
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no signing key", func(t *testing.T) {
		_, err := NewTokenService("").Issue("user-1", time.Now().Add(time.Hour))
		assert.Error(t, err)
	})
}
