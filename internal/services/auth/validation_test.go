package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
)

func TestValidateSignup(t *testing.T) {
	cases := map[string]struct {
		req  models.SignupRequest
		want string
	}{
		"missing email":    {models.SignupRequest{Password: "Secret123", ConfirmPassword: "Secret123"}, "Email is required"},
		"bad email":        {models.SignupRequest{Email: "jane", Password: "Secret123", ConfirmPassword: "Secret123"}, "Please enter a valid email address"},
		"missing password": {models.SignupRequest{Email: "jane@example.com"}, "Password is required"},
		"short password":   {models.SignupRequest{Email: "jane@example.com", Password: "Se1", ConfirmPassword: "Se1"}, "Password must be at least 8 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateSignup(&tc.req)
			assert.EqualError(t, err, tc.want)
		})
	}

	assert.NoError(t, ValidateSignup(&models.SignupRequest{Email: "jane@example.com", Password: "Secret123", ConfirmPassword: "Secret123"}))
}

func TestValidateLogin(t *testing.T) {
	assert.EqualError(t, ValidateLogin(&models.LoginRequest{Password: "x"}), "Email is required")
	assert.EqualError(t, ValidateLogin(&models.LoginRequest{Email: "nope", Password: "x"}), "Please enter a valid email address")
	assert.EqualError(t, ValidateLogin(&models.LoginRequest{Email: "jane@example.com"}), "Password is required")
	assert.NoError(t, ValidateLogin(&models.LoginRequest{Email: "jane@example.com", Password: "x"}))
}
