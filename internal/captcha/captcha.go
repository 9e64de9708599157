// Package captcha models the bot verification widget as a capability producing a token.
package captcha

import (
	"context"
	"errors"
	"strings"
)

// Header carries the verification token on login requests
const Header = "X-Turnstile-Token"

// ErrNotVerified is returned when no verification token is available
var ErrNotVerified = errors.New("security check not completed")

// Verifier produces a one-shot verification token
type Verifier interface {
	Verify(ctx context.Context) (string, error)
}

// Static wraps a token the browser widget already produced
type Static string

// Verify returns the wrapped token
func (s Static) Verify(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(s))
	if tok == "" {
		return "", ErrNotVerified
	}
	return tok, nil
}
