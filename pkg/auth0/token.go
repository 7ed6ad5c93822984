package auth0

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// maxTokenBody caps how much of a token endpoint response is read.
const maxTokenBody = 1 << 20

// CachedToken is an access token together with the instant it was requested
// and its lifetime.
type CachedToken struct {
	AccessToken string
	IssuedAt    time.Time
	ExpiresIn   time.Duration
}

// ExpiresAt is the instant the server stops accepting the token.
func (t CachedToken) ExpiresAt() time.Time {
	return t.IssuedAt.Add(t.ExpiresIn)
}

func (t CachedToken) validAt(now time.Time, leeway time.Duration) bool {
	leeway = min(leeway, t.ExpiresIn/2)
	return now.Before(t.IssuedAt.Add(t.ExpiresIn - leeway))
}

// TokenManager obtains client-credentials tokens and caches the current one.
// Concurrent callers that find the cache empty or expired share a single
// fetch.
type TokenManager struct {
	cfg      Config
	tokenURL string
	http     *http.Client
	clock    Clock
	leeway   time.Duration
	logger   *slog.Logger
	metrics  *metrics

	mu    sync.Mutex
	token *CachedToken

	group singleflight.Group
}

// NewTokenManager returns a manager for cfg. Options that only concern the
// request dispatcher are ignored.
func NewTokenManager(cfg Config, opts ...Option) (*TokenManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return newTokenManager(cfg, o, o.buildHTTPClient(), newMetrics(o.registerer)), nil
}

func newTokenManager(cfg Config, o *options, hc *http.Client, m *metrics) *TokenManager {
	cfg.Domain = normalizeDomain(cfg.Domain)
	return &TokenManager{
		cfg:      cfg,
		tokenURL: (&url.URL{Scheme: "https", Host: cfg.Domain, Path: "/oauth/token"}).String(),
		http:     hc,
		clock:    o.clock,
		leeway:   o.leeway,
		logger:   o.logger,
		metrics:  m,
	}
}

// Token returns a valid access token, fetching a new one if the cached token
// is missing or expired. A caller whose ctx ends stops waiting; a fetch
// already in flight still completes and fills the cache.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if tok, ok, err := m.cached(); err != nil || ok {
		return tok, err
	}

	ch := m.group.DoChan("token", func() (any, error) {
		// A flight that finished just before this one started may have
		// already stored a fresh token.
		if tok, ok, err := m.cached(); err != nil || ok {
			return tok, err
		}
		return m.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", &TokenError{Kind: ErrTokenTransport, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Cached returns a copy of the cached token, valid or not.
func (m *TokenManager) Cached() (CachedToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return CachedToken{}, false
	}
	return *m.token, true
}

// Invalidate drops the cached token so the next call to Token fetches.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
}

func (m *TokenManager) cached() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		return "", false, nil
	}

	now := m.clock.Now()
	if now.Before(m.token.IssuedAt) {
		issued := m.token.IssuedAt
		m.token = nil
		return "", false, &TokenError{
			Kind: ErrTokenClock,
			Err:  fmt.Errorf("now %s is before token issue time %s", now.Format(time.RFC3339), issued.Format(time.RFC3339)),
		}
	}

	if !m.token.validAt(now, m.leeway) {
		return "", false, nil
	}
	return m.token.AccessToken, true, nil
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	log := slogx.FromContextOr(ctx, m.logger)

	issuedAt := m.clock.Now()
	resp, err := m.fetch(ctx)
	m.metrics.observeTokenFetch(err)
	if err != nil {
		log.Warn("auth0 token fetch failed", "domain", m.cfg.Domain, "err", err)
		return "", err
	}

	lifetime := time.Duration(resp.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = lifetimeFromJWT(resp.AccessToken, issuedAt)
	}

	tok := &CachedToken{
		AccessToken: resp.AccessToken,
		IssuedAt:    issuedAt,
		ExpiresIn:   lifetime,
	}

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()

	log.Info("auth0 token fetched", "domain", m.cfg.Domain, "expires_in", lifetime)
	return tok.AccessToken, nil
}

func (m *TokenManager) fetch(ctx context.Context) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {m.cfg.ClientID},
		"client_secret": {m.cfg.ClientSecret},
		"audience":      {m.cfg.Audience},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TokenError{Kind: ErrTokenTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, &TokenError{Kind: ErrTokenTransport, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenBody))
	if err != nil {
		return nil, &TokenError{Kind: ErrTokenTransport, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TokenError{Kind: ErrTokenAccessDenied, OAuth: parseOAuth2Error(resp.StatusCode, body)}
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &TokenError{Kind: ErrTokenDecode, Err: err}
	}
	if tr.AccessToken == "" {
		return nil, &TokenError{Kind: ErrTokenDecode, Err: fmt.Errorf("response has no access_token")}
	}
	return &tr, nil
}

// parseOAuth2Error decodes a token endpoint rejection, falling back to the
// body text when it is not an OAuth2 error document.
func parseOAuth2Error(status int, body []byte) *OAuth2Error {
	// Rate limiting and some gateway errors come back in the Management
	// API shape, which also has an "error" field.
	var apiResp APIErrorResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Message != "" {
		code := apiResp.ErrorCode
		if code == "" {
			code = fallbackOAuth2Code(status)
		}
		return NewOAuth2Error(status, code, apiResp.Message)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return NewOAuth2Error(status, errResp.Error, errResp.ErrorDescription)
	}

	desc := strings.TrimSpace(string(body))
	if desc == "" {
		desc = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	return NewOAuth2Error(status, fallbackOAuth2Code(status), desc)
}

func fallbackOAuth2Code(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorCodeAccessDenied
	case status >= 500:
		return ErrorCodeServerError
	default:
		return ErrorCodeInvalidRequest
	}
}

// lifetimeFromJWT reads the exp claim without verifying the signature. The
// token came straight from the issuer over TLS; only its timing is used.
func lifetimeFromJWT(raw string, issuedAt time.Time) time.Duration {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil || claims.ExpiresAt == nil {
		return 0
	}
	return max(claims.ExpiresAt.Sub(issuedAt), 0)
}
