package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingExpiry is returned when a token carries no exp claim
var ErrMissingExpiry = errors.New("token has no expiry")

var parser = jwt.NewParser()

// Decode reads the token payload without verifying the signature.
// The storefront never holds the signing key; the backend stays the authority.
func Decode(tokenString string) (*Claims, error) {
	if strings.Count(tokenString, ".") != 2 {
		return nil, fmt.Errorf("failed to parse token: %w", jwt.ErrTokenMalformed)
	}

	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// Expiry returns the exp claim of a token
func Expiry(tokenString string) (time.Time, error) {
	claims, err := Decode(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrMissingExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token is unusable right now
func IsExpired(tokenString string) bool {
	return IsExpiredAt(tokenString, time.Now())
}

// IsExpiredAt reports whether the token is unusable at now.
// Any decode failure counts as expired.
func IsExpiredAt(tokenString string, now time.Time) bool {
	if tokenString == "" {
		return true
	}
	exp, err := Expiry(tokenString)
	if err != nil {
		return true
	}
	return exp.Unix() <= now.Unix()
}
