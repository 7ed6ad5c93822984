package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/service"
	"github.com/aussiebroadwan/auth0mgmt/pkg/auth0"
	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
)

var (
	errUnauthorized = auth0.NewOAuth2Error(http.StatusUnauthorized, auth0.ErrorCodeAccessDenied, "Unauthorized")
	errServer       = auth0.NewOAuth2Error(http.StatusInternalServerError, auth0.ErrorCodeServerError, "Internal server error")
)

// TokenHandler serves POST /oauth/token. Form encoded and JSON bodies are
// both accepted, as on a real tenant.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Issues a Management API access token for the client_credentials grant.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Accept			json
//	@Produce		json
//	@Param			request	body		http.TokenRequest	true	"grant_type, client_id, client_secret, audience, scope"
//	@Success		200		{object}	auth0.TokenResponse	"access_token, token_type, expires_in, scope"
//	@Failure		400		{object}	auth0.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	auth0.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	auth0.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	auth0.APIErrorResponse
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/oauth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := decodeTokenRequest(w, r)
	if !ok {
		return
	}

	if req.GrantType != "client_credentials" {
		auth0.NewOAuth2Error(http.StatusBadRequest, auth0.ErrorCodeUnsupportedGrantType,
			"Unsupported grant type: "+req.GrantType).WriteError(w)
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		auth0.NewOAuth2Error(http.StatusBadRequest, auth0.ErrorCodeInvalidRequest,
			"Missing required parameter: client_id and client_secret").WriteError(w)
		return
	}

	tok, err := h.TokenService.ExchangeClientCredentials(ctx,
		req.ClientID,
		req.ClientSecret,
		req.Audience,
		httpx.ParseSpaceDelimitedFields(req.Scope),
	)
	if err != nil {
		var scopeErr *service.ScopeError
		switch {
		case errors.Is(err, service.ErrInvalidClient):
			errUnauthorized.WriteError(w)
		case errors.Is(err, service.ErrInvalidAudience):
			auth0.NewOAuth2Error(http.StatusForbidden, auth0.ErrorCodeAccessDenied,
				"Service not enabled within domain: "+req.Audience).WriteError(w)
		case errors.As(err, &scopeErr):
			auth0.NewOAuth2Error(http.StatusForbidden, auth0.ErrorCodeAccessDenied, scopeErr.Error()).WriteError(w)
		default:
			log.Error("client_credentials grant failed", "err", err)
			errServer.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, auth0.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   int(tok.ExpiresIn.Seconds()),
		Scope:       tok.Scope,
	})
}

func decodeTokenRequest(w http.ResponseWriter, r *http.Request) (TokenRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/json":
		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth0.NewOAuth2Error(http.StatusBadRequest, auth0.ErrorCodeInvalidRequest, "Invalid JSON in request body").WriteError(w)
			return TokenRequest{}, false
		}
		req.ClientID = strings.TrimSpace(req.ClientID)
		return req, true

	case "application/x-www-form-urlencoded", "":
		if err := r.ParseForm(); err != nil {
			auth0.NewOAuth2Error(http.StatusBadRequest, auth0.ErrorCodeInvalidRequest, "Invalid form body").WriteError(w)
			return TokenRequest{}, false
		}
		return TokenRequest{
			GrantType:    r.PostForm.Get("grant_type"),
			ClientID:     strings.TrimSpace(r.PostForm.Get("client_id")),
			ClientSecret: r.PostForm.Get("client_secret"),
			Audience:     r.PostForm.Get("audience"),
			Scope:        r.PostForm.Get("scope"),
		}, true

	default:
		auth0.NewOAuth2Error(http.StatusBadRequest, auth0.ErrorCodeInvalidRequest,
			"Content-Type must be application/x-www-form-urlencoded or application/json").WriteError(w)
		return TokenRequest{}, false
	}
}
