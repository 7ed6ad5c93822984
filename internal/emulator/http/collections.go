package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/service"
	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
)

const maxBodyBytes = 1 << 20

// CollectionsHandler serves /api/v2/{collection} and
// /api/v2/{collection}/{id} for any collection as opaque JSON documents.
type CollectionsHandler struct {
	Resources *service.ResourceService
}

// HandleList handles GET /api/v2/{collection}
//
//	@Summary		List documents
//	@Description	Returns a page of a collection. With include_totals=true the page is wrapped with start, limit, length and total.
//	@Tags			Management
//	@Produce		json
//	@Security		BearerAuth
//	@Param			collection		path		string	true	"Collection name, e.g. users"
//	@Param			page			query		int		false	"Zero based page index"
//	@Param			per_page		query		int		false	"Page size (max 100)"
//	@Param			include_totals	query		bool	false	"Wrap the page with totals"
//	@Success		200				{array}		object
//	@Failure		400				{object}	auth0.APIErrorResponse
//	@Failure		401				{object}	auth0.APIErrorResponse
//	@Failure		403				{object}	auth0.APIErrorResponse
//	@Failure		429				{object}	auth0.APIErrorResponse
//	@Router			/api/v2/{collection} [get].
func (h *CollectionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	collection := r.PathValue("collection")

	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 0)
	if err != nil {
		writeQueryError(w, "page", err)
		return
	}
	perPage, err := intParam(q.Get("per_page"), 0)
	if err != nil {
		writeQueryError(w, "per_page", err)
		return
	}
	includeTotals, err := boolParam(q.Get("include_totals"))
	if err != nil {
		writeQueryError(w, "include_totals", err)
		return
	}

	list, err := h.Resources.List(ctx, collection, domain.Page{Page: page, PerPage: perPage})
	if err != nil {
		writeServiceError(w, r, collection, err)
		return
	}

	items := make([]map[string]any, len(list.Items))
	for i, res := range list.Items {
		items[i] = res.Body
	}

	if !includeTotals {
		httpx.WriteJSON(w, http.StatusOK, items)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"start":    list.Page.Offset(),
		"limit":    list.Page.PerPage,
		"length":   len(items),
		"total":    list.Total,
		collection: items,
	})
}

// HandleCreate handles POST /api/v2/{collection}
//
//	@Summary		Create document
//	@Description	Stores the JSON object body and assigns it an id.
//	@Tags			Management
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			collection	path		string	true	"Collection name"
//	@Param			body		body		object	true	"Document"
//	@Success		201			{object}	object
//	@Failure		400			{object}	auth0.APIErrorResponse
//	@Failure		401			{object}	auth0.APIErrorResponse
//	@Failure		403			{object}	auth0.APIErrorResponse
//	@Failure		429			{object}	auth0.APIErrorResponse
//	@Router			/api/v2/{collection} [post].
func (h *CollectionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	body, ok := decodeObject(w, r)
	if !ok {
		return
	}

	res, err := h.Resources.Create(r.Context(), collection, body)
	if err != nil {
		writeServiceError(w, r, collection, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res.Body)
}

// HandleGet handles GET /api/v2/{collection}/{id}
//
//	@Summary		Get document
//	@Tags			Management
//	@Produce		json
//	@Security		BearerAuth
//	@Param			collection	path		string	true	"Collection name"
//	@Param			id			path		string	true	"Document id"
//	@Success		200			{object}	object
//	@Failure		404			{object}	auth0.APIErrorResponse
//	@Router			/api/v2/{collection}/{id} [get].
func (h *CollectionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	res, err := h.Resources.Get(r.Context(), collection, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, collection, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Body)
}

// HandlePatch handles PATCH /api/v2/{collection}/{id}
//
//	@Summary		Update document
//	@Description	Merges the top-level keys of the body into the document. A null value removes the key.
//	@Tags			Management
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			collection	path		string	true	"Collection name"
//	@Param			id			path		string	true	"Document id"
//	@Param			body		body		object	true	"Partial document"
//	@Success		200			{object}	object
//	@Failure		400			{object}	auth0.APIErrorResponse
//	@Failure		404			{object}	auth0.APIErrorResponse
//	@Router			/api/v2/{collection}/{id} [patch].
func (h *CollectionsHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	patch, ok := decodeObject(w, r)
	if !ok {
		return
	}

	res, err := h.Resources.Patch(r.Context(), collection, r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, collection, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Body)
}

// HandleDelete handles DELETE /api/v2/{collection}/{id}
//
//	@Summary		Delete document
//	@Tags			Management
//	@Security		BearerAuth
//	@Param			collection	path	string	true	"Collection name"
//	@Param			id			path	string	true	"Document id"
//	@Success		204			"Deleted, empty body"
//	@Failure		404			{object}	auth0.APIErrorResponse
//	@Router			/api/v2/{collection}/{id} [delete].
func (h *CollectionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	if err := h.Resources.Delete(r.Context(), collection, r.PathValue("id")); err != nil {
		writeServiceError(w, r, collection, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		httpx.WriteAPIError(w, http.StatusBadRequest, "Payload validation error: body must be a JSON object", "invalid_body")
		return nil, false
	}
	return body, true
}

func writeQueryError(w http.ResponseWriter, param string, err error) {
	httpx.WriteAPIError(w, http.StatusBadRequest,
		"Query validation error: '"+param+"' "+err.Error(), "invalid_query_string")
}

func writeServiceError(w http.ResponseWriter, r *http.Request, collection string, err error) {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		httpx.WriteAPIError(w, http.StatusNotFound, "The resource does not exist.",
			"inexistent_"+strings.TrimSuffix(collection, "s"))
	case errors.Is(err, service.ErrResourceConflict):
		httpx.WriteAPIError(w, http.StatusConflict, "The resource already exists.", "resource_exists")
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteAPIError(w, http.StatusBadRequest, err.Error(), "invalid_body")
	default:
		slogx.FromContext(r.Context()).Error("management request failed", "collection", collection, "err", err)
		httpx.WriteAPIError(w, http.StatusInternalServerError, "Internal error", "")
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("must be a non-negative integer")
	}
	return n, nil
}

func boolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("must be a boolean")
	}
	return b, nil
}
