package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

// LocalTokens verifies and issues local session tokens
type LocalTokens interface {
	ValidateToken(token string) (string, error)
	Issue(userID string, expiresAt time.Time) (string, error)
}

type SessionMiddleware struct {
	tokens   LocalTokens
	localTTL time.Duration
	secure   bool
	now      func() time.Time
}

func NewSessionMiddleware(tokens LocalTokens, localTTL time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		tokens:   tokens,
		localTTL: localTTL,
		secure:   secure,
		now:      time.Now,
	}
}

// RequireSession verifies the local session token, re-issues it with a fresh
// sliding expiry and sets user_id and session_secret in the context. Any
// failure clears both session cookies.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret, localToken := utils.SessionCookies(c)
		if secret == "" || localToken == "" {
			m.reject(c, "missing session cookie")
			return
		}

		userID, err := m.tokens.ValidateToken(localToken)
		if err != nil {
			m.reject(c, err.Error())
			return
		}

		expiresAt := m.now().Add(m.localTTL)
		refreshed, err := m.tokens.Issue(userID, expiresAt)
		if err != nil {
			logrus.Errorf("Failed to refresh local session: %v", err)
			m.reject(c, "refresh failed")
			return
		}
		utils.SetSessionCookie(c, utils.LocalSessionCookie, refreshed, expiresAt, m.secure)

		c.Set("user_id", userID)
		c.Set("session_secret", secret)

		c.Next()
	}
}

func (m *SessionMiddleware) reject(c *gin.Context, reason string) {
	logrus.WithField("path", c.Request.URL.Path).Debugf("Session rejected: %s", reason)
	utils.ClearSessionCookies(c, m.secure)
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required. Please log in."})
	c.Abort()
}
