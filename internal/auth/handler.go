package auth

import (
	"errors"
	"net/http"

	"github.com/ekrishihub/storefront/internal/captcha"
	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/middleware"
	"github.com/ekrishihub/storefront/internal/notify"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// Notifier shows a toast to the user
type Notifier interface {
	Notify(level notify.Level, message string)
}

// Handler handles sign-in and registration views
type Handler struct {
	service  *Service
	notifier Notifier
	siteKey  string
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service, notifier Notifier, turnstileSiteKey string) *Handler {
	return &Handler{service: service, notifier: notifier, siteKey: turnstileSiteKey}
}

type loginForm struct {
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	TurnstileToken string `json:"turnstileToken"`
}

type otpForm struct {
	Email string          `json:"email" binding:"required"`
	OTP   string          `json:"otp"`
	Role  credential.Role `json:"role"`
}

// LoginView renders the login view for role
// GET /farmer-login, /customer-login
func (h *Handler) LoginView(role credential.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.View(c, "login", gin.H{
			"role":             role,
			"turnstileSiteKey": h.siteKey,
		})
	}
}

// Login handles email/password sign-in for role
// POST /farmer-login, /customer-login
func (h *Handler) Login(role credential.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form loginForm
		if err := c.ShouldBindJSON(&form); err != nil {
			response.ValidationError(c, err.Error())
			return
		}

		req := LoginRequest{Role: role, Email: form.Email, Password: form.Password}
		result, err := h.service.Login(c.Request.Context(), req, captcha.Static(form.TurnstileToken))
		if err != nil {
			friendly := Friendly(err)
			if friendly.Code == KindTurnstile {
				h.notifier.Notify(notify.LevelError, friendly.Message)
			}
			c.Error(friendly)
			return
		}

		h.notifier.Notify(notify.LevelSuccess, "Login successful!")
		c.Redirect(http.StatusFound, result.Redirect)
	}
}

// RegisterView renders the registration view for role
// GET /farmer-register, /customer-register
func (h *Handler) RegisterView(role credential.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.View(c, "register", gin.H{"role": role})
	}
}

// Register creates an account for role and moves to OTP entry
// POST /farmer-register, /customer-register
func (h *Handler) Register(role credential.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err.Error())
			return
		}
		req.Role = role

		result, err := h.service.Register(c.Request.Context(), req)
		if err != nil {
			h.fail(c, err, "Registration failed. Try a different email.")
			return
		}

		response.View(c, "verify-otp", gin.H{
			"email":       result.Email,
			"role":        role,
			"resendAfter": result.ResendAfter,
		})
	}
}

// VerifyOTP confirms a registration
// POST /verify-otp
func (h *Handler) VerifyOTP(c *gin.Context) {
	var form otpForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	target, err := h.service.VerifyOTP(c.Request.Context(), form.Email, form.OTP, form.Role)
	if err != nil {
		h.fail(c, err, "Invalid or expired OTP. Please try again.")
		return
	}

	h.notifier.Notify(notify.LevelSuccess, "Email verified. Please log in.")
	c.Redirect(http.StatusFound, target)
}

// ResendOTP sends a fresh code
// POST /resend-otp
func (h *Handler) ResendOTP(c *gin.Context) {
	var form otpForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.ResendOTP(c.Request.Context(), form.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeRateLimitExceeded) {
			middleware.RecordRateLimitHit()
		}
		h.fail(c, err, "Could not resend code. Please try again.")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Logout signs out
// POST /logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelInfo, "Logged out")
	c.Redirect(http.StatusFound, "/")
}

// fail reports err, falling back to fallback when the backend gave no message
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var verr *ValidationErrors
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    apperrors.ErrCodeValidationFailed,
				"message": verr.Error(),
				"fields":  verr.Errors,
			},
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message == http.StatusText(appErr.Status) {
		err = apperrors.Wrap(appErr.Code, fallback, appErr.Status, appErr)
	}
	c.Error(err)
}
