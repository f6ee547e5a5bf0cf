package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
)

var validate = validator.New()

// ValidateEmail applies the shared email rules
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Message: "Email is required"}
	}
	if err := validate.Var(email, "email"); err != nil {
		return &ValidationError{Message: "Please enter a valid email address"}
	}
	return nil
}

// ValidateSignup checks a signup form in the order the form shows errors
func ValidateSignup(req *models.SignupRequest) error {
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return &ValidationError{Message: "Password is required"}
	}
	return ValidatePassword(req.Password, req.ConfirmPassword)
}

// ValidateLogin checks a login form
func ValidateLogin(req *models.LoginRequest) error {
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return &ValidationError{Message: "Password is required"}
	}
	return nil
}
