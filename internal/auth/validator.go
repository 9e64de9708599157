package auth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ekrishihub/storefront/internal/credential"
)

var (
	// Email validation regex (RFC 5322 simplified)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	otpRegex = regexp.MustCompile(`^\d{6}$`)

	minPasswordLength = 6
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a list of field errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

func (e *ValidationErrors) add(field, message string) {
	e.Errors = append(e.Errors, ValidationError{Field: field, Message: message})
}

func (e *ValidationErrors) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

func (e *ValidationErrors) email(email string) {
	if strings.TrimSpace(email) == "" {
		e.add("email", "Email is required")
	} else if !IsValidEmail(email) {
		e.add("email", "Invalid email")
	}
}

func (e *ValidationErrors) password(password string) {
	if password == "" {
		e.add("password", "Password is required")
	} else if len(password) < minPasswordLength {
		e.add("password", fmt.Sprintf("Min %d characters", minPasswordLength))
	}
}

func (e *ValidationErrors) role(role credential.Role) {
	if credential.ParseRole(string(role)) == "" {
		e.add("role", "Role must be FARMER or CUSTOMER")
	}
}

// ValidateLoginRequest validates a login request
func ValidateLoginRequest(req *LoginRequest) error {
	var errs ValidationErrors
	errs.email(req.Email)
	errs.password(req.Password)
	errs.role(req.Role)
	return errs.orNil()
}

// ValidateRegisterRequest validates a registration request
func ValidateRegisterRequest(req *RegisterRequest) error {
	var errs ValidationErrors
	if strings.TrimSpace(req.Name) == "" {
		errs.add("name", "Name is required")
	}
	errs.email(req.Email)
	errs.password(req.Password)
	if req.ConfirmPassword == "" {
		errs.add("confirmPassword", "Please confirm your password")
	} else if req.ConfirmPassword != req.Password {
		errs.add("confirmPassword", "Passwords must match")
	}
	errs.role(req.Role)
	return errs.orNil()
}

// ValidateOTP checks an OTP code is exactly six digits
func ValidateOTP(code string) error {
	if !otpRegex.MatchString(strings.TrimSpace(code)) {
		return &ValidationErrors{Errors: []ValidationError{{Field: "otp", Message: "Please enter the 6-digit code"}}}
	}
	return nil
}

// IsValidEmail checks if an email address is valid
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// SanitizeEmail normalizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
