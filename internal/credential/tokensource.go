package credential

import (
	"context"
	"errors"

	"github.com/ekrishihub/storefront/internal/token"
	"golang.org/x/oauth2"
)

// ErrNoCredential is returned by OAuth2Token when nobody is signed in
var ErrNoCredential = errors.New("no credential stored")

// OAuth2Token returns the stored credential as a bearer token.
// Storage is re-read on every call so a cleared session is seen immediately.
func (s *Store) OAuth2Token(ctx context.Context) (*oauth2.Token, error) {
	cred, ok, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCredential
	}

	tok := &oauth2.Token{
		AccessToken: cred.Token,
		TokenType:   token.TokenTypeBearer,
	}
	if exp, err := token.Expiry(cred.Token); err == nil {
		tok.Expiry = exp
	}
	return tok, nil
}
