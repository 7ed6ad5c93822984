package auth0

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "test-client"
	testClientSecret = "test-secret"
)

// fakeClock is a Clock whose time only moves when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// tenant is an httptest TLS server that speaks just enough of the token
// endpoint and Management API for the client to be exercised.
type tenant struct {
	t   *testing.T
	srv *httptest.Server

	fetches atomic.Int32
	issued  atomic.Int32

	mu    sync.Mutex
	token http.HandlerFunc
	api   http.HandlerFunc
}

func newTenant(t *testing.T) *tenant {
	t.Helper()

	tn := &tenant{t: t}
	tn.token = tn.grantToken(3600)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tn.fetches.Add(1)
		tn.mu.Lock()
		h := tn.token
		tn.mu.Unlock()
		h(w, r)
	})
	mux.HandleFunc("/api/v2/", func(w http.ResponseWriter, r *http.Request) {
		tn.mu.Lock()
		h := tn.api
		tn.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	})

	tn.srv = httptest.NewTLSServer(mux)
	t.Cleanup(tn.srv.Close)
	return tn
}

func (tn *tenant) domain() string {
	return tn.srv.Listener.Addr().String()
}

func (tn *tenant) config() Config {
	return Config{
		Domain:       tn.domain(),
		Audience:     DefaultAudience(tn.domain()),
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
	}
}

func (tn *tenant) client(opts ...Option) *Client {
	tn.t.Helper()
	opts = append([]Option{WithHTTPClient(tn.srv.Client())}, opts...)
	c, err := New(tn.config(), opts...)
	require.NoError(tn.t, err)
	return c
}

func (tn *tenant) tokens(opts ...Option) *TokenManager {
	tn.t.Helper()
	opts = append([]Option{WithHTTPClient(tn.srv.Client())}, opts...)
	m, err := NewTokenManager(tn.config(), opts...)
	require.NoError(tn.t, err)
	return m
}

func (tn *tenant) onToken(h http.HandlerFunc) {
	tn.mu.Lock()
	tn.token = h
	tn.mu.Unlock()
}

func (tn *tenant) onAPI(h http.HandlerFunc) {
	tn.mu.Lock()
	tn.api = h
	tn.mu.Unlock()
}

// grantToken checks the client credentials form and issues numbered tokens
// "token-1", "token-2", ...
func (tn *tenant) grantToken(expiresIn int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil ||
			r.PostForm.Get("grant_type") != "client_credentials" ||
			r.PostForm.Get("client_id") != testClientID ||
			r.PostForm.Get("client_secret") != testClientSecret {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "access_denied", ErrorDescription: "Unauthorized"})
			return
		}
		n := tn.issued.Add(1)
		writeJSON(w, http.StatusOK, TokenResponse{
			AccessToken: "token-" + strconv.Itoa(int(n)),
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setRateHeaders(w http.ResponseWriter, limit, remaining int, reset time.Time) {
	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(limit))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, strconv.FormatInt(reset.Unix(), 10))
}
