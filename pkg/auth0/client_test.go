package auth0

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type user struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func TestClientDo(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	reset := time.Now().Add(time.Minute)

	var got *http.Request
	var gotBody []byte
	tn.onAPI(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		setRateHeaders(w, 50, 49, reset)
		writeJSON(w, http.StatusOK, user{UserID: "auth0|123", Email: "a@example.com"})
	})

	c := tn.client()

	t.Run("get with query", func(t *testing.T) {
		req := NewRequest(http.MethodGet, "api/v2/users?fields=email").WithQuery("page", "1")
		out, err := Query[user](context.Background(), c, req)
		require.NoError(t, err)
		require.Equal(t, user{UserID: "auth0|123", Email: "a@example.com"}, out)

		require.Equal(t, "/api/v2/users", got.URL.Path)
		require.Equal(t, url.Values{"fields": {"email"}, "page": {"1"}}, got.URL.Query())
		require.Equal(t, "Bearer token-1", got.Header.Get("Authorization"))
		require.Equal(t, "application/json", got.Header.Get("Accept"))
		require.Empty(t, got.Header.Get("Content-Type"))
		require.True(t, strings.HasPrefix(got.Header.Get("User-Agent"), "auth0mgmt-go/"))
		require.NotEmpty(t, got.Header.Get("X-Request-ID"))
		require.Empty(t, gotBody)

		state := c.RateLimiter().State()
		require.True(t, state.Known)
		require.EqualValues(t, 50, state.Limit)
		require.EqualValues(t, 49, state.Remaining)
	})

	t.Run("post with body", func(t *testing.T) {
		req := NewRequest(http.MethodPost, "/api/v2/users").WithBody(map[string]string{"email": "b@example.com"})
		resp, err := c.Do(context.Background(), req, nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, resp.RateLimitErr)

		require.Equal(t, http.MethodPost, got.Method)
		require.Equal(t, "application/json", got.Header.Get("Content-Type"))
		require.JSONEq(t, `{"email":"b@example.com"}`, string(gotBody))
	})

	t.Run("escaped path segments", func(t *testing.T) {
		_, err := Query[user](context.Background(), c, NewRequest(http.MethodGet, Path("api/v2/users", "auth0|123")))
		require.NoError(t, err)
		require.Equal(t, "/api/v2/users/auth0%7C123", got.URL.EscapedPath())
	})

	require.EqualValues(t, 1, tn.fetches.Load(), "token reused across requests")
}

func TestClientMissingRateLimitHeaders(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	tn.onAPI(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRateLimitLimit, "10")
		writeJSON(w, http.StatusOK, user{UserID: "u1"})
	})

	t.Run("lenient", func(t *testing.T) {
		c := tn.client()
		var out user
		resp, err := c.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/users/u1"), &out)
		require.NoError(t, err)
		require.Equal(t, "u1", out.UserID)
		require.ErrorIs(t, resp.RateLimitErr, ErrMissingRateRemainingHeader)
		require.ErrorIs(t, c.RateLimiter().Err(), ErrMissingRateRemainingHeader)
		require.False(t, c.RateLimiter().State().Known)
	})

	t.Run("strict", func(t *testing.T) {
		c := tn.client(WithStrictRateLimit())
		out, err := Query[user](context.Background(), c, NewRequest(http.MethodGet, "api/v2/users/u1"))
		require.ErrorIs(t, err, ErrRateLimit)
		require.ErrorIs(t, err, ErrMissingRateRemainingHeader)
		require.Equal(t, "u1", out.UserID, "value is decoded even when the headers are unreadable")
	})
}

func TestClientAPIErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		ctype  string
		body   string
		want   APIError
	}{
		{
			name:   "management api document",
			status: http.StatusNotFound,
			ctype:  "application/json",
			body:   `{"statusCode":404,"error":"Not Found","message":"The user does not exist.","errorCode":"inexistent_user"}`,
			want:   APIError{StatusCode: 404, Name: "Not Found", Message: "The user does not exist.", ErrorCode: "inexistent_user"},
		},
		{
			name:   "oauth style document",
			status: http.StatusUnauthorized,
			ctype:  "application/json",
			body:   `{"error":"invalid_token","error_description":"expired"}`,
			want:   APIError{StatusCode: 401, Name: "invalid_token", Message: "expired"},
		},
		{
			name:   "plain text",
			status: http.StatusBadGateway,
			ctype:  "text/plain",
			body:   "upstream unavailable\n",
			want:   APIError{StatusCode: 502, Name: "Bad Gateway", Message: "upstream unavailable", Raw: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tn := newTenant(t)
			tn.onAPI(func(w http.ResponseWriter, _ *http.Request) {
				setRateHeaders(w, 10, 9, time.Now().Add(time.Minute))
				w.Header().Set("Content-Type", tc.ctype)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			resp, err := tn.client().Do(context.Background(), NewRequest(http.MethodDelete, "api/v2/users/x"), nil)
			require.ErrorIs(t, err, ErrAPI)
			require.Equal(t, tc.status, resp.StatusCode)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tc.want, *apiErr)

			var e *Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, http.MethodDelete, e.Method)
			require.Equal(t, "api/v2/users/x", e.Path)
		})
	}
}

func TestClientRateLimitHeadersReadOnErrors(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	tn.onAPI(func(w http.ResponseWriter, _ *http.Request) {
		setRateHeaders(w, 10, 0, time.Now().Add(time.Minute))
		writeJSON(w, http.StatusTooManyRequests, APIErrorResponse{StatusCode: 429, Error: "Too Many Requests", Message: "Global limit has been reached", ErrorCode: "too_many_requests"})
	})

	c := tn.client()
	_, err := c.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/users"), nil)
	require.ErrorIs(t, err, ErrAPI)

	state := c.RateLimiter().State()
	require.True(t, state.Known)
	require.Zero(t, state.Remaining)
	require.False(t, c.RateLimiter().CheckLimit())
}

func TestClientTokenFailure(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	called := false
	tn.onAPI(func(http.ResponseWriter, *http.Request) { called = true })

	cfg := tn.config()
	cfg.ClientSecret = "nope"
	c, err := New(cfg, WithHTTPClient(tn.srv.Client()))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/users"), nil)
	require.ErrorIs(t, err, ErrToken)
	require.ErrorIs(t, err, ErrTokenAccessDenied)
	require.False(t, called)
}

func TestClientBodies(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, status int, ctype, body string) *Client {
		tn := newTenant(t)
		tn.onAPI(func(w http.ResponseWriter, _ *http.Request) {
			setRateHeaders(w, 10, 9, time.Now().Add(time.Minute))
			if ctype != "" {
				w.Header().Set("Content-Type", ctype)
			}
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
		return tn.client()
	}

	t.Run("empty body leaves target untouched", func(t *testing.T) {
		t.Parallel()
		c := serve(t, http.StatusNoContent, "", "")

		out := user{UserID: "keep"}
		resp, err := c.Do(context.Background(), NewRequest(http.MethodDelete, "api/v2/users/1"), &out)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Equal(t, "keep", out.UserID)
	})

	t.Run("text body into string", func(t *testing.T) {
		t.Parallel()
		c := serve(t, http.StatusOK, "text/plain; charset=utf-8", "OK")

		out, err := Query[string](context.Background(), c, NewRequest(http.MethodGet, "api/v2/ping"))
		require.NoError(t, err)
		require.Equal(t, "OK", out)
	})

	t.Run("unlabelled json", func(t *testing.T) {
		t.Parallel()
		c := serve(t, http.StatusOK, "text/plain", `{"user_id":"u2"}`)

		out, err := Query[user](context.Background(), c, NewRequest(http.MethodGet, "api/v2/users/u2"))
		require.NoError(t, err)
		require.Equal(t, "u2", out.UserID)
	})

	t.Run("broken json", func(t *testing.T) {
		t.Parallel()
		c := serve(t, http.StatusOK, "application/json", `{"user_id":`)

		_, err := Query[user](context.Background(), c, NewRequest(http.MethodGet, "api/v2/users/u3"))
		require.ErrorIs(t, err, ErrDecode)
	})

	t.Run("text into struct", func(t *testing.T) {
		t.Parallel()
		c := serve(t, http.StatusOK, "text/html", "<html></html>")

		_, err := Query[user](context.Background(), c, NewRequest(http.MethodGet, "api/v2/users/u4"))
		require.ErrorIs(t, err, ErrDecode)
	})

	t.Run("raw json", func(t *testing.T) {
		t.Parallel()
		c := serve(t, http.StatusOK, "application/json", `[1,2,3]`)

		out, err := Query[json.RawMessage](context.Background(), c, NewRequest(http.MethodGet, "api/v2/stats/daily"))
		require.NoError(t, err)
		require.JSONEq(t, `[1,2,3]`, string(out))
	})
}

func TestClientRequestErrors(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	c := tn.client()

	_, err := c.Do(context.Background(), NewRequest(http.MethodGet, "https://evil.example.com/api/v2/users"), nil)
	require.ErrorIs(t, err, ErrRequest)

	_, err = c.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/%zz"), nil)
	require.ErrorIs(t, err, ErrRequest)

	_, err = c.Do(context.Background(), NewRequest(http.MethodPost, "api/v2/users").WithBody(make(chan int)), nil)
	require.ErrorIs(t, err, ErrRequest)

	require.Zero(t, tn.fetches.Load(), "no token fetched for requests that cannot be built")
}

func TestClientTransportError(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	c := tn.client()

	_, err := c.Tokens().Token(context.Background())
	require.NoError(t, err)
	tn.srv.Close()

	_, err = c.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/users"), nil)
	require.ErrorIs(t, err, ErrTransport)
}

func TestClientRateLimitGate(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	calls := 0
	tn.onAPI(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		setRateHeaders(w, 1, 0, time.Now().Add(time.Hour))
		writeJSON(w, http.StatusOK, user{})
	})

	c := tn.client(WithRateLimitGate())

	_, err := c.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/users"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Do(ctx, NewRequest(http.MethodGet, "api/v2/users"), nil)
	require.ErrorIs(t, err, ErrRateLimit)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, calls)
}

func TestClientPacing(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	tn.onAPI(func(w http.ResponseWriter, _ *http.Request) {
		setRateHeaders(w, 100, 99, time.Now().Add(time.Minute))
		writeJSON(w, http.StatusOK, user{})
	})

	c := tn.client(WithPacing(rate.Every(time.Hour), 1))

	_, err := c.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/users"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Do(ctx, NewRequest(http.MethodGet, "api/v2/users"), nil)
	require.ErrorIs(t, err, ErrRateLimit)
}

func TestClientMetrics(t *testing.T) {
	t.Parallel()

	tn := newTenant(t)
	tn.onAPI(func(w http.ResponseWriter, _ *http.Request) {
		setRateHeaders(w, 10, 7, time.Now().Add(time.Minute))
		writeJSON(w, http.StatusOK, user{})
	})

	reg := prometheus.NewRegistry()
	c := tn.client(WithMetrics(reg))
	// A second client on the same registry shares the collectors.
	other := tn.client(WithMetrics(reg))

	for _, cl := range []*Client{c, other} {
		_, err := cl.Do(context.Background(), NewRequest(http.MethodGet, "api/v2/users"), nil)
		require.NoError(t, err)
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	require.Equal(t, 2.0, values["auth0mgmt_requests_total"])
	require.Equal(t, 2.0, values["auth0mgmt_token_fetches_total"])
	require.Equal(t, 10.0, values["auth0mgmt_ratelimit_limit"])
	require.Equal(t, 7.0, values["auth0mgmt_ratelimit_remaining"])
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	for _, want := range []error{ErrMissingDomain, ErrMissingAudience, ErrMissingClientID, ErrMissingClientSecret} {
		require.ErrorIs(t, err, want)
	}
}

func TestConfigNormalizesDomain(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://tenant.example.com/api/v2/", DefaultAudience("https://tenant.example.com/"))
	require.Equal(t, "tenant.example.com", normalizeDomain(" http://tenant.example.com// "))
	require.ErrorIs(t, Config{Domain: "https://", Audience: "a", ClientID: "b", ClientSecret: "c"}.Validate(), ErrMissingDomain)
}

func TestRequestHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, "api/v2/users/auth0%7C123/roles", Path("api/v2/users/", "auth0|123", "roles"))
	require.Equal(t, "api/v2/users/a%2Fb", Path("api/v2/users", "a/b"))

	base := NewRequest("", "api/v2/users").WithQuery("q", "x")
	derived := base.WithQuery("q", "y")
	require.Equal(t, http.MethodGet, base.Method())
	require.Equal(t, []string{"x"}, base.Query()["q"], "WithQuery must not alias the receiver")
	require.Equal(t, []string{"x", "y"}, derived.Query()["q"])
	require.Nil(t, base.Body())
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: ErrAPI, Method: "GET", Path: "api/v2/users", Err: NewAPIError(404, "gone", "inexistent_user")}
	require.Equal(t, "auth0: api: GET api/v2/users: 404 Not Found: gone (inexistent_user)", err.Error())
	require.True(t, errors.Is(err, ErrAPI))
	require.False(t, errors.Is(err, ErrToken))

	te := &TokenError{Kind: ErrTokenClock}
	require.Equal(t, "auth0: clock moved backwards", te.Error())
	require.Empty(t, te.Description())
}
