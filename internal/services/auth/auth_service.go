package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("a user with the same email already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// ValidationError is a signup input problem that can be shown to the user
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// UserStore is the user persistence the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// SessionStore is the provider session persistence the auth service needs
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetBySecretHash(ctx context.Context, hash string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthService is the account provider: it registers users, opens and
// closes provider sessions and resolves session secrets back to users
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	tokens     *TokenService
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, tokens *TokenService, sessionTTL time.Duration) *AuthService {
	logrus.Infof("Provider session TTL: %s", sessionTTL)
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// ClientInfo identifies the client opening a session
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// ValidatePassword applies the signup password rules
func ValidatePassword(password, confirm string) error {
	switch {
	case len(password) < 8:
		return &ValidationError{Message: "Password must be at least 8 characters"}
	case !lowerPattern.MatchString(password):
		return &ValidationError{Message: "Password must contain at least one lowercase letter"}
	case !upperPattern.MatchString(password):
		return &ValidationError{Message: "Password must contain at least one uppercase letter"}
	case !digitPattern.MatchString(password):
		return &ValidationError{Message: "Password must contain at least one number"}
	case confirm == "":
		return &ValidationError{Message: "Please confirm your password"}
	case password != confirm:
		return &ValidationError{Message: "Passwords don't match"}
	}
	return nil
}

// Signup registers a user and opens a provider session. The returned
// session carries no local token.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest, client ClientInfo) (*models.IssuedSession, error) {
	if err := ValidateSignup(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         utils.EmailLocalPart(email),
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("User registered")
	return s.openSession(ctx, user, client)
}

// Login verifies the credentials, opens a provider session and signs a
// local token that expires with it
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, client ClientInfo) (*models.IssuedSession, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	issued, err := s.openSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	issued.LocalToken, err = s.tokens.Issue(user.ID, issued.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to issue local session: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		logrus.Warnf("Failed to update last login for %s: %v", user.ID, err)
	}
	return issued, nil
}

// ResolveSession maps a session secret to its live session. An expired
// session is returned together with ErrSessionExpired.
func (s *AuthService) ResolveSession(ctx context.Context, secret string) (*models.Session, error) {
	if secret == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.sessions.GetBySecretHash(ctx, hashSecret(secret))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.IsExpired(s.now()) {
		return session, ErrSessionExpired
	}
	return session, nil
}

// Logout deletes the session the secret belongs to. Unknown or expired
// secrets are not an error.
func (s *AuthService) Logout(ctx context.Context, secret string) error {
	session, err := s.ResolveSession(ctx, secret)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if errors.Is(err, ErrSessionExpired) {
		return s.sessions.Delete(ctx, session.ID)
	}
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	logrus.WithField("user_id", session.UserID).Info("Session closed")
	return nil
}

// Tokens returns the local token service shared with the middleware
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, client ClientInfo) (*models.IssuedSession, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.sessionTTL)
	session := &models.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		SecretHash: hashSecret(secret),
		ExpiresAt:  expiresAt,
		UserAgent:  truncate(client.UserAgent, 500),
		IPAddress:  truncate(client.IPAddress, 45),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.IssuedSession{
		Session:   session,
		Secret:    secret,
		ExpiresAt: expiresAt,
	}, nil
}

func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
