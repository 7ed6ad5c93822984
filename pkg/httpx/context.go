package httpx

import (
	"context"

	"github.com/aussiebroadwan/auth0mgmt/pkg/jwtx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
)

type ctxKey string

const (
	CtxKeyClientID ctxKey = "client_id"
	CtxKeyScopes   ctxKey = "scopes"
	CtxKeyClaims   ctxKey = "claims"
)

// HeaderRequestID carries the request id between client and server.
const HeaderRequestID = slogx.HeaderRequestID

// ClientIDFromContext returns the authenticated client id, if any.
func ClientIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyClientID).(string)
	return v
}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
