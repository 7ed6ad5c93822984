package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/service"
	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
)

// ClientsHandler handles the machine-to-machine application endpoints. They
// shadow the generic collection routes for "clients".
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleCreate handles POST /api/v2/clients
//
//	@Summary		Create Client
//	@Description	Creates a machine-to-machine application. The secret is only returned here.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		http.CreateClientRequest	true	"name and scopes"
//	@Success		201		{object}	http.ClientResponse			"client_id and client_secret"
//	@Failure		400		{object}	auth0.APIErrorResponse
//	@Failure		401		{object}	auth0.APIErrorResponse
//	@Failure		403		{object}	auth0.APIErrorResponse
//	@Router			/api/v2/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteAPIError(w, http.StatusBadRequest, "Payload validation error: invalid JSON", "invalid_body")
		return
	}

	c, secret, err := h.ClientService.CreateClient(ctx, req.Name, req.Scopes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			httpx.WriteAPIError(w, http.StatusBadRequest, "Payload validation error: "+err.Error(), "invalid_body")
			return
		}
		slogx.FromContext(ctx).Error("failed to create client", "error", err)
		httpx.WriteAPIError(w, http.StatusInternalServerError, "Failed to create client", "")
		return
	}

	resp := clientResponse(c)
	resp.ClientSecret = secret
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /api/v2/clients
//
//	@Summary		List Clients
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		http.ClientResponse
//	@Failure		401	{object}	auth0.APIErrorResponse
//	@Failure		403	{object}	auth0.APIErrorResponse
//	@Router			/api/v2/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clients, err := h.ClientService.ListClients(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list clients", "error", err)
		httpx.WriteAPIError(w, http.StatusInternalServerError, "Failed to list clients", "")
		return
	}

	out := make([]ClientResponse, len(clients))
	for i, c := range clients {
		out[i] = clientResponse(c)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /api/v2/clients/{id}
//
//	@Summary		Get Client
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Client ID"
//	@Success		200	{object}	http.ClientResponse
//	@Failure		404	{object}	auth0.APIErrorResponse
//	@Router			/api/v2/clients/{id} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, err := h.ClientService.GetClient(ctx, r.PathValue("id"))
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		httpx.WriteAPIError(w, http.StatusNotFound, "The client does not exist", "inexistent_client")
		return
	case err != nil:
		slogx.FromContext(ctx).Error("failed to get client", "error", err)
		httpx.WriteAPIError(w, http.StatusInternalServerError, "Failed to get client", "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clientResponse(c))
}

// HandleDelete handles DELETE /api/v2/clients/{id}
//
//	@Summary		Delete Client
//	@Description	Deletes a client. The seed client is protected.
//	@Tags			Clients
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Client ID"
//	@Success		204	"Client deleted"
//	@Failure		403	{object}	auth0.APIErrorResponse
//	@Failure		404	{object}	auth0.APIErrorResponse
//	@Router			/api/v2/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := r.PathValue("id")

	err := h.ClientService.DeleteClient(ctx, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			httpx.WriteAPIError(w, http.StatusNotFound, "The client does not exist", "inexistent_client")
		case errors.Is(err, service.ErrClientProtected):
			httpx.WriteAPIError(w, http.StatusForbidden, "Cannot delete protected client", "operation_not_supported")
		default:
			slogx.FromContext(ctx).Error("failed to delete client", "error", err, "client_id", clientID)
			httpx.WriteAPIError(w, http.StatusInternalServerError, "Failed to delete client", "")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func clientResponse(c domain.Client) ClientResponse {
	scopes := c.Scopes
	if scopes == nil {
		scopes = []string{}
	}
	return ClientResponse{
		ClientID:   c.ID,
		Name:       c.Name,
		AppType:    "non_interactive",
		GrantTypes: []string{"client_credentials"},
		Scopes:     scopes,
		Protected:  c.Protected,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}
