package token

import (
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// SessionSource serves the stored session token as an oauth2 bearer token.
// It reads the store on every call so a new login or a logout takes effect immediately.
type SessionSource struct {
	store sessions.Store
}

var _ oauth2.TokenSource = (*SessionSource)(nil)

func NewSessionSource(store sessions.Store) *SessionSource {
	return &SessionSource{store: store}
}

// Token returns sessions.ErrNoSession (wrapped) when nobody is logged in.
func (s *SessionSource) Token() (*oauth2.Token, error) {
	session, err := s.store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "[SessionSource.Token]")
	}
	tok := &oauth2.Token{AccessToken: session.Token, TokenType: "Bearer"}
	if exp, ok := ExpiresAt(session.Token); ok {
		tok.Expiry = exp
	}
	return tok, nil
}
