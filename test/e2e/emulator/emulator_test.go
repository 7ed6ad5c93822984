package emulator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/auth0mgmt/pkg/auth0"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	tn := setupTenant(t, nil)

	for _, path := range []string{"/livez", "/readyz"} {
		resp := tn.get(t, path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		var health struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		require.Equal(t, "ok", health.Status)
	}
}

// TestManagementRoundTrip drives a user through create, read, update and
// delete with the SDK, then checks the 404 afterwards.
func TestManagementRoundTrip(t *testing.T) {
	tn := setupTenant(t, nil)
	c := tn.seed(t)
	ctx := context.Background()

	user, err := auth0.Query[map[string]any](ctx, c,
		auth0.NewRequest(http.MethodPost, "api/v2/users").WithBody(map[string]any{"email": "e2e@example.com"}))
	require.NoError(t, err)
	id := user["user_id"].(string)
	path := auth0.Path("api/v2/users", id)

	updated, err := auth0.Query[map[string]any](ctx, c,
		auth0.NewRequest(http.MethodPatch, path).WithBody(map[string]any{"blocked": true}))
	require.NoError(t, err)
	require.Equal(t, true, updated["blocked"])

	_, err = c.Do(ctx, auth0.NewRequest(http.MethodDelete, path), nil)
	require.NoError(t, err)

	_, err = auth0.Query[map[string]any](ctx, c, auth0.NewRequest(http.MethodGet, path))
	require.Equal(t, "inexistent_user", assertAPIError(t, err, http.StatusNotFound).ErrorCode)

	state := c.RateLimiter().State()
	require.True(t, state.Known)
	require.Equal(t, uint64(1000), state.Limit)
}

// TestSingleTokenFetch checks that concurrent first callers share one token.
func TestSingleTokenFetch(t *testing.T) {
	tn := setupTenant(t, nil)
	c := tn.seed(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	tokens := make([]string, 8)
	for i := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := c.Tokens().Token(ctx)
			if err == nil {
				tokens[i] = tok
			}
		}()
	}
	wg.Wait()

	for _, tok := range tokens {
		require.NotEmpty(t, tok)
		require.Equal(t, tokens[0], tok)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	tn := setupTenant(t, map[string]string{
		"RATELIMIT_MANAGEMENT_REQUESTS":   "1",
		"RATELIMIT_MANAGEMENT_WINDOW_SEC": "60",
		"RATELIMIT_MANAGEMENT_BURST":      "3",
	})
	c := tn.seed(t)
	ctx := context.Background()
	list := auth0.NewRequest(http.MethodGet, "api/v2/users")

	for want := uint64(2); ; want-- {
		_, err := c.Do(ctx, list, nil)
		require.NoError(t, err)
		require.Equal(t, want, c.RateLimiter().State().Remaining)
		if want == 0 {
			break
		}
	}

	_, err := c.Do(ctx, list, nil)
	assertAPIError(t, err, http.StatusTooManyRequests)
	require.Positive(t, c.RateLimiter().RetryAfter())
}

func TestTokenRejections(t *testing.T) {
	tn := setupTenant(t, nil)
	ctx := context.Background()

	_, err := tn.client(t, seedClientID, "wrong").Tokens().Token(ctx)
	require.ErrorIs(t, err, auth0.ErrTokenAccessDenied)

	var tokErr *auth0.TokenError
	require.ErrorAs(t, err, &tokErr)
	require.Equal(t, http.StatusUnauthorized, tokErr.OAuth.StatusCode)

	c, err := auth0.New(auth0.Config{
		Domain:       tn.Addr,
		Audience:     "https://api.example.com/",
		ClientID:     seedClientID,
		ClientSecret: seedClientSecret,
	}, auth0.WithHTTPClient(insecureHTTPClient()))
	require.NoError(t, err)

	_, err = c.Tokens().Token(ctx)
	require.ErrorAs(t, err, &tokErr)
	require.Equal(t, http.StatusForbidden, tokErr.OAuth.StatusCode)
	require.Contains(t, tokErr.Description(), "Service not enabled within domain")
}

func TestSeedClientProtected(t *testing.T) {
	tn := setupTenant(t, nil)
	c := tn.seed(t)
	ctx := context.Background()

	_, err := c.Do(ctx, auth0.NewRequest(http.MethodDelete, auth0.Path("api/v2/clients", seedClientID)), nil)
	require.Equal(t, "operation_not_supported", assertAPIError(t, err, http.StatusForbidden).ErrorCode)
}
