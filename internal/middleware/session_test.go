package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/auth"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessionRouter(tokens *auth.TokenService) *gin.Engine {
	r := gin.New()
	mw := NewSessionMiddleware(tokens, time.Hour, true)
	r.GET("/protected", mw.RequireSession(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet("user_id"),
			"secret":  c.MustGet("session_secret"),
		})
	})
	return r
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRequireSession_RefreshesLocalToken(t *testing.T) {
	tokens := auth.NewTokenService("signing-key")
	token, err := tokens.Issue("user-1", time.Now().Add(5*time.Minute))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: utils.AppSessionCookie, Value: "secret"})
	req.AddCookie(&http.Cookie{Name: utils.LocalSessionCookie, Value: token})
	w := httptest.NewRecorder()
	newSessionRouter(tokens).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-1","secret":"secret"}`, w.Body.String())

	refreshed := cookieByName(w.Result().Cookies(), utils.LocalSessionCookie)
	require.NotNil(t, refreshed)
	assert.True(t, refreshed.HttpOnly)
	assert.True(t, refreshed.Secure)
	assert.Equal(t, http.SameSiteStrictMode, refreshed.SameSite)
	assert.Equal(t, "/", refreshed.Path)
	assert.InDelta(t, 3600, refreshed.MaxAge, 2)

	userID, err := tokens.ValidateToken(refreshed.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Nil(t, cookieByName(w.Result().Cookies(), utils.AppSessionCookie))
}

func TestRequireSession_Rejects(t *testing.T) {
	tokens := auth.NewTokenService("signing-key")
	expired, err := tokens.Issue("user-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	valid, err := tokens.Issue("user-1", time.Now().Add(time.Minute))
	require.NoError(t, err)

	cases := map[string][]*http.Cookie{
		"no cookies":    nil,
		"no app cookie": {{Name: utils.LocalSessionCookie, Value: valid}},
		"no local":      {{Name: utils.AppSessionCookie, Value: "secret"}},
		"expired":       {{Name: utils.AppSessionCookie, Value: "secret"}, {Name: utils.LocalSessionCookie, Value: expired}},
		"tampered":      {{Name: utils.AppSessionCookie, Value: "secret"}, {Name: utils.LocalSessionCookie, Value: valid + "x"}},
	}
	for name, cookies := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			for _, c := range cookies {
				req.AddCookie(c)
			}
			w := httptest.NewRecorder()
			newSessionRouter(tokens).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Authentication required. Please log in."}`, w.Body.String())

			for _, name := range []string{utils.AppSessionCookie, utils.LocalSessionCookie} {
				cleared := cookieByName(w.Result().Cookies(), name)
				require.NotNil(t, cleared, name)
				assert.Equal(t, "", cleared.Value)
				assert.True(t, cleared.MaxAge < 0)
			}
		})
	}
}
