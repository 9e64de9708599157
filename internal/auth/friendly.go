package auth

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/ekrishihub/storefront/internal/captcha"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
)

// Friendly error kinds
const (
	KindTurnstile   = "TURNSTILE"
	KindCredentials = "CREDENTIALS"
	KindFormat      = "FORMAT"
	KindBadRequest  = "BAD_REQUEST"
	KindGeneric     = "GENERIC"
)

var (
	captchaPattern = regexp.MustCompile(`(?i)turnstile|captcha`)
	formatPattern  = regexp.MustCompile(`(?i)content-type.*urlencoded|json.*not supported`)
)

// Friendly maps a login failure to a banner the user can act on
func Friendly(err error) *apperrors.AppError {
	if errors.Is(err, captcha.ErrNotVerified) {
		return apperrors.Wrap(KindTurnstile, "Please complete the security check.", http.StatusBadRequest, err)
	}

	var verr *ValidationErrors
	if errors.As(err, &verr) {
		return apperrors.Wrap(apperrors.ErrCodeValidationFailed, verr.Error(), http.StatusBadRequest, err)
	}

	status := apperrors.StatusOf(err)
	raw := apperrors.MessageOf(err)

	switch {
	case status == http.StatusBadRequest && captchaPattern.MatchString(raw):
		return apperrors.Wrap(KindTurnstile, "Please complete the security check and try again.", status, err)
	case status == http.StatusUnauthorized:
		return apperrors.Wrap(KindCredentials, "Incorrect email or password. Please try again.", status, err)
	case status == http.StatusBadRequest && formatPattern.MatchString(raw):
		return apperrors.Wrap(KindFormat, "We couldn't process your login. Please refresh and try again.", status, err)
	case status == http.StatusBadRequest:
		return apperrors.Wrap(KindBadRequest, "Please check your input and try again.", status, err)
	}

	if status < 400 {
		status = http.StatusBadGateway
	}
	return apperrors.Wrap(KindGeneric, "Login failed. Please try again.", status, err)
}
