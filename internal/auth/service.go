package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ekrishihub/storefront/internal/captcha"
	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/gateway"
	"github.com/ekrishihub/storefront/internal/guard"
	"github.com/ekrishihub/storefront/internal/middleware"
	"github.com/ekrishihub/storefront/internal/ratelimit"
	"github.com/ekrishihub/storefront/internal/token"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
	"go.uber.org/zap"
)

// Backend endpoints
const (
	farmerLoginPath   = "/farmer-login"
	customerLoginPath = "/customer-login"
	registerPath      = "/auth/register"
	verifyOTPPath     = "/auth/verify-otp"
	resendOTPPath     = "/auth/resend-otp"
)

// ErrMalformedLogin is returned when a login response carries no token
var ErrMalformedLogin = errors.New("malformed login response")

// Service handles sign-in, registration and sign-out against the backend
type Service struct {
	client   *gateway.Client
	store    *credential.Store
	cooldown ratelimit.Cooldown
	targets  guard.Targets
	logger   *zap.Logger
}

// NewService creates a new authentication service
func NewService(
	client *gateway.Client,
	store *credential.Store,
	cooldown ratelimit.Cooldown,
	targets guard.Targets,
	logger *zap.Logger,
) *Service {
	return &Service{
		client:   client,
		store:    store,
		cooldown: cooldown,
		targets:  targets,
		logger:   logger,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Role     credential.Role `json:"-"`
	Email    string          `json:"email" binding:"required"`
	Password string          `json:"password" binding:"required"`
}

// LoginResult is a successful sign-in
type LoginResult struct {
	Role        credential.Role `json:"role"`
	Email       string          `json:"email"`
	DisplayName string          `json:"name,omitempty"`
	Redirect    string          `json:"redirect"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name            string          `json:"name" binding:"required"`
	Email           string          `json:"email" binding:"required"`
	Password        string          `json:"password" binding:"required"`
	ConfirmPassword string          `json:"confirmPassword" binding:"required"`
	Role            credential.Role `json:"-"`
}

// RegisterResult is a pending registration awaiting its OTP
type RegisterResult struct {
	Email       string `json:"email"`
	ResendAfter int    `json:"resendAfter"`
}

type loginBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login signs in against the role's login endpoint and persists the credential
func (s *Service) Login(ctx context.Context, req LoginRequest, verifier captcha.Verifier) (*LoginResult, error) {
	start := time.Now()
	req.Role = credential.ParseRole(string(req.Role))
	if err := ValidateLoginRequest(&req); err != nil {
		return nil, err
	}

	tsToken, err := verifier.Verify(ctx)
	if err != nil {
		recordLogin(req.Role, "unverified", start)
		return nil, err
	}

	email := SanitizeEmail(req.Email)
	endpoint := farmerLoginPath
	if req.Role == credential.RoleCustomer {
		endpoint = customerLoginPath
	}

	var body map[string]interface{}
	err = s.client.Post(ctx, endpoint, loginBody{Email: email, Username: email, Password: req.Password}, &body,
		gateway.WithHeader(captcha.Header, tsToken))
	if apperrors.StatusOf(err) == http.StatusBadRequest {
		s.logger.Debug("JSON login rejected, retrying as form", zap.String("endpoint", endpoint))
		form := url.Values{}
		form.Set("username", email)
		form.Set("password", req.Password)
		body = nil
		err = s.client.Post(ctx, endpoint, nil, &body,
			gateway.WithForm(form),
			gateway.WithHeader(captcha.Header, tsToken))
	}
	if err != nil {
		recordLogin(req.Role, "failure", start)
		return nil, err
	}

	raw, ok := token.ExtractToken(body)
	if !ok {
		recordLogin(req.Role, "failure", start)
		return nil, ErrMalformedLogin
	}

	claims, err := token.Decode(raw)
	if err != nil {
		s.logger.Warn("Login token could not be decoded", zap.Error(err))
	}

	role := claims.NormalizedRole()
	if credential.ParseRole(role) == "" {
		role = token.NormalizeRole(body["role"])
	}
	resolved := credential.ParseRole(role)
	if resolved == "" {
		resolved = req.Role
	}

	identity := claims.Identity()
	if identity == "" {
		identity = email
	}
	name, _ := body["name"].(string)

	cred := credential.Credential{
		Token:       raw,
		Role:        resolved,
		DisplayName: name,
		Profile:     credential.Profile{Email: identity, Role: resolved},
	}
	if err := s.store.Set(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to persist credential: %w", err)
	}

	recordLogin(req.Role, "success", start)
	s.logger.Info("Signed in", zap.String("role", string(resolved)), zap.String("email", identity))

	return &LoginResult{
		Role:        resolved,
		Email:       identity,
		DisplayName: name,
		Redirect:    s.targets.DashboardFor(resolved),
	}, nil
}

// Register creates an account and starts the OTP resend window
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	req.Role = credential.ParseRole(string(req.Role))
	if err := ValidateRegisterRequest(&req); err != nil {
		return nil, err
	}

	email := SanitizeEmail(req.Email)
	payload := map[string]string{
		"name":     req.Name,
		"email":    email,
		"password": req.Password,
		"role":     string(req.Role),
	}
	if err := s.client.Post(ctx, registerPath, payload, nil); err != nil {
		return nil, err
	}

	// the backend sent the first code; resend waits out a full window
	key := ratelimit.OTPResendKey(email)
	if err := s.cooldown.Reset(ctx, key); err != nil {
		s.logger.Warn("Failed to reset OTP cooldown", zap.Error(err))
	}
	if _, _, err := s.cooldown.Acquire(ctx, key); err != nil {
		s.logger.Warn("Failed to start OTP cooldown", zap.Error(err))
	}

	wait, _ := s.cooldown.Remaining(ctx, key)
	s.logger.Info("Registration pending verification", zap.String("email", email), zap.String("role", string(req.Role)))
	return &RegisterResult{Email: email, ResendAfter: int(wait.Round(time.Second) / time.Second)}, nil
}

// VerifyOTP confirms a registration and returns the login view for role
func (s *Service) VerifyOTP(ctx context.Context, email, code string, role credential.Role) (string, error) {
	if err := ValidateOTP(code); err != nil {
		return "", err
	}
	email = SanitizeEmail(email)
	if !IsValidEmail(email) {
		return "", &ValidationErrors{Errors: []ValidationError{{Field: "email", Message: "Invalid email"}}}
	}

	payload := map[string]string{"email": email, "otp": code}
	if err := s.client.Post(ctx, verifyOTPPath, payload, nil); err != nil {
		return "", err
	}

	if err := s.cooldown.Reset(ctx, ratelimit.OTPResendKey(email)); err != nil {
		s.logger.Warn("Failed to clear OTP cooldown", zap.Error(err))
	}
	return s.targets.LoginFor(credential.ParseRole(string(role))), nil
}

// ResendOTP requests a fresh code once the cooldown allows it
func (s *Service) ResendOTP(ctx context.Context, email string) (*RegisterResult, error) {
	email = SanitizeEmail(email)
	if !IsValidEmail(email) {
		return nil, &ValidationErrors{Errors: []ValidationError{{Field: "email", Message: "Invalid email"}}}
	}

	key := ratelimit.OTPResendKey(email)
	allowed, remaining, err := s.cooldown.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	if !allowed {
		secs := int(remaining.Round(time.Second) / time.Second)
		return nil, apperrors.NewAppError(
			apperrors.ErrCodeRateLimitExceeded,
			fmt.Sprintf("Please wait %ds before requesting a new code", secs),
			http.StatusTooManyRequests,
		)
	}

	if err := s.client.Post(ctx, resendOTPPath, map[string]string{"email": email}, nil); err != nil {
		if rerr := s.cooldown.Reset(ctx, key); rerr != nil {
			s.logger.Warn("Failed to release OTP cooldown", zap.Error(rerr))
		}
		return nil, err
	}

	wait, _ := s.cooldown.Remaining(ctx, key)
	return &RegisterResult{Email: email, ResendAfter: int(wait.Round(time.Second) / time.Second)}, nil
}

func recordLogin(role credential.Role, status string, start time.Time) {
	middleware.RecordLoginAttempt(string(role), status, time.Since(start))
}

// Logout clears the stored credential
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}
