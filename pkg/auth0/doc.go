// Package auth0 is a small client for the Auth0 Management API.
//
// It does not model individual endpoints. Instead it provides the request
// core every endpoint needs: a client-credentials token that is fetched,
// cached and refreshed on demand, bookkeeping of the x-ratelimit-* headers the
// API returns, and a dispatcher that injects the bearer token and moves typed
// JSON in and out.
//
// Typical use:
//
//	client, err := auth0.New(auth0.Config{
//		Domain:       "tenant.eu.auth0.com",
//		Audience:     auth0.DefaultAudience("tenant.eu.auth0.com"),
//		ClientID:     id,
//		ClientSecret: secret,
//	})
//	if err != nil {
//		return err
//	}
//
//	type user struct {
//		UserID string `json:"user_id"`
//		Email  string `json:"email"`
//	}
//	u, err := auth0.Query[user](ctx, client, auth0.NewRequest(http.MethodGet, "api/v2/users/"+url.PathEscape(id)))
//
// Errors returned by the client are *Error values whose Kind is one of
// ErrTransport, ErrToken, ErrRateLimit, ErrAPI, ErrDecode or ErrRequest, so
// callers can branch with errors.Is and dig into *TokenError, *RateLimitError
// or *APIError with errors.As.
//
// A *Client is safe for concurrent use. Nothing is retried automatically.
package auth0
