package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// RequireAllScopes the caller must have every scope listed.
func RequireAllScopes(required ...string) Middleware {
	return RequireScopes(func(*http.Request) []string { return required })
}

// RequireScopes is RequireAllScopes for scopes that depend on the request,
// e.g. "read:" plus a path value.
func RequireScopes(scopesFor func(*http.Request) []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := scopesFromCtx(r.Context())
			required := scopesFor(r)

			for _, req := range required {
				if !slices.Contains(have, req) {
					writeBearerScopeError(w, required...)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750 insufficient_scope challenge with a Management API style body.
func writeBearerScopeError(w http.ResponseWriter, required ...string) {
	scope := strings.Join(required, " ")
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+scope+`"`)
	WriteAPIError(w, http.StatusForbidden, "Insufficient scope, expected any of: "+scope, "insufficient_scope")
}
