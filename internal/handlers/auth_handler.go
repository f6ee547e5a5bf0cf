package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/auth"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

const dashboardPath = "/auth/userDashboard"

// AuthService is the account provider used by AuthHandler
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest, client auth.ClientInfo) (*models.IssuedSession, error)
	Login(ctx context.Context, req *models.LoginRequest, client auth.ClientInfo) (*models.IssuedSession, error)
	Logout(ctx context.Context, secret string) error
}

// TokenValidator verifies local session tokens
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

type AuthHandler struct {
	authService  AuthService
	tokens       TokenValidator
	secureCookie bool
}

func NewAuthHandler(authService AuthService, tokens TokenValidator, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

// Signup godoc
// @Summary Register user
// @Description Create an account and open a provider session (sets the appSession cookie)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Signup request"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.AuthResponse
// @Failure 409 {object} models.AuthResponse
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	issued, err := h.authService.Signup(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, models.AuthResponse{Success: false, Message: verr.Message})
		case errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusConflict, models.AuthResponse{Success: false, Message: "A user with the same email already exists."})
		default:
			logrus.Errorf("Signup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	utils.SetSessionCookie(c, utils.AppSessionCookie, issued.Secret, issued.ExpiresAt, h.secureCookie)
	c.JSON(http.StatusOK, models.AuthResponse{Success: true, Message: "Account created successfully"})
}

// Login godoc
// @Summary Login user
// @Description Authenticate with email and password. Sets the appSession and localSession cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.AuthResponse
// @Failure 401 {object} models.AuthResponse
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}
	if err := auth.ValidateLogin(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.AuthResponse{Success: false, Message: err.Error()})
		return
	}

	issued, err := h.authService.Login(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.AuthResponse{
				Success: false,
				Message: "Invalid credentials. Please check the email and password.",
			})
			return
		}
		logrus.Errorf("Login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	utils.SetSessionCookie(c, utils.AppSessionCookie, issued.Secret, issued.ExpiresAt, h.secureCookie)
	utils.SetSessionCookie(c, utils.LocalSessionCookie, issued.LocalToken, issued.ExpiresAt, h.secureCookie)
	c.JSON(http.StatusOK, models.AuthResponse{Success: true, Message: "Login successful"})
}

// Logout godoc
// @Summary Logout user
// @Description Delete the provider session and clear both session cookies. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} models.AuthResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	secret, _ := utils.SessionCookies(c)
	if secret != "" {
		if err := h.authService.Logout(c.Request.Context(), secret); err != nil {
			logrus.Warnf("Failed to delete provider session: %v", err)
		}
	}

	utils.ClearSessionCookies(c, h.secureCookie)
	c.JSON(http.StatusOK, models.AuthResponse{Success: true, Message: "Logged out successfully"})
}

// Session godoc
// @Summary Session status
// @Description Report whether the session cookies hold a valid session
// @Tags auth
// @Produce json
// @Success 200 {object} models.SessionStatusResponse
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	secret, localToken := utils.SessionCookies(c)
	if secret == "" && localToken == "" {
		c.JSON(http.StatusOK, models.SessionStatusResponse{Authenticated: false})
		return
	}

	userID, err := h.tokens.ValidateToken(localToken)
	if secret == "" || err != nil {
		utils.ClearSessionCookies(c, h.secureCookie)
		c.JSON(http.StatusOK, models.SessionStatusResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, models.SessionStatusResponse{
		Authenticated: true,
		UserID:        userID,
		RedirectTo:    dashboardPath,
	})
}

func clientInfo(c *gin.Context) auth.ClientInfo {
	return auth.ClientInfo{
		UserAgent: c.GetHeader("User-Agent"),
		IPAddress: c.ClientIP(),
	}
}
