package auth0

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource adapts the manager to oauth2.TokenSource, e.g. for
// oauth2.NewClient. ctx is used for every fetch the source performs.
func (m *TokenManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, m: m}
}

type tokenSource struct {
	ctx context.Context
	m   *TokenManager
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	raw, err := s.m.Token(s.ctx)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if c, ok := s.m.Cached(); ok && c.AccessToken == raw && c.ExpiresIn > 0 {
		tok.Expiry = c.ExpiresAt()
		tok.ExpiresIn = int64(c.ExpiresIn.Seconds())
	}
	return tok, nil
}
