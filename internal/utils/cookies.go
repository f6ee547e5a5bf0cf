package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Session cookie names
const (
	AppSessionCookie   = "appSession"
	LocalSessionCookie = "localSession"
)

// SetSessionCookie sets an httpOnly, SameSite=Strict cookie on path "/"
// that expires at expiresAt
func SetSessionCookie(c *gin.Context, name, value string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

// ClearSessionCookies expires both session cookies
func ClearSessionCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AppSessionCookie, "", -1, "/", "", secure, true)
	c.SetCookie(LocalSessionCookie, "", -1, "/", "", secure, true)
}

// SessionCookies returns the provider session secret and the local token
func SessionCookies(c *gin.Context) (secret, localToken string) {
	secret, _ = c.Cookie(AppSessionCookie)
	localToken, _ = c.Cookie(LocalSessionCookie)
	return secret, localToken
}
