package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/service"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store"
	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/jwtx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/auth0mgmt/api/emulator" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// ManagementLimit is the per-client budget shared by every /api/v2
	// route. TokenLimit applies per IP and client_id on /oauth/token.
	ManagementLimit httpx.RateLimitConfig
	TokenLimit      httpx.RateLimitConfig

	// Gatherer backs /metrics. Defaults to the prometheus default registry.
	Gatherer prometheus.Gatherer

	TokenService    *service.TokenService
	ClientService   *service.ClientService
	ResourceService *service.ResourceService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:             http.NewServeMux(),
		keys:            keys,
		verifier:        verifier,
		buildVersion:    buildVersion,
		startTime:       time.Now(),
		store:           st,
		logger:          logger,
		ManagementLimit: httpx.ManagementLimit,
		TokenLimit:      httpx.TokenLimit,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerManagement()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Auth0 Tenant Emulator
//	@version		0.1.0
//	@description	A local stand-in for an Auth0 tenant: the client-credentials token endpoint, JWKS and a generic Management API store.
//	@description
//	@description				Every /api/v2 response carries x-ratelimit-limit, x-ratelimit-remaining and x-ratelimit-reset.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8443
//	@BasePath					/
//
//	@schemes					https http
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token from /oauth/token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /oauth/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndFormField(r.TokenLimit, "client_id"),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json", JWKSHandler(r.keys))
}

func (r *Router) registerManagement() {
	// One bucket per client across all routes, as on a real tenant.
	limit := httpx.RateLimitByClient(r.ManagementLimit)

	secured := func(h http.HandlerFunc, scopes func(*http.Request) []string) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			limit,
			httpx.RequireScopes(scopes),
		)
	}
	scope := func(verb string) func(*http.Request) []string {
		return func(req *http.Request) []string {
			return []string{verb + ":" + req.PathValue("collection")}
		}
	}
	fixed := func(s string) func(*http.Request) []string {
		return func(*http.Request) []string { return []string{s} }
	}

	clients := &ClientsHandler{ClientService: r.ClientService}
	r.Mux.Handle("POST /api/v2/clients", secured(clients.HandleCreate, fixed("create:clients")))
	r.Mux.Handle("GET /api/v2/clients", secured(clients.HandleList, fixed("read:clients")))
	r.Mux.Handle("GET /api/v2/clients/{id}", secured(clients.HandleGet, fixed("read:clients")))
	r.Mux.Handle("DELETE /api/v2/clients/{id}", secured(clients.HandleDelete, fixed("delete:clients")))

	docs := &CollectionsHandler{Resources: r.ResourceService}
	r.Mux.Handle("GET /api/v2/{collection}", secured(docs.HandleList, scope("read")))
	r.Mux.Handle("POST /api/v2/{collection}", secured(docs.HandleCreate, scope("create")))
	r.Mux.Handle("GET /api/v2/{collection}/{id}", secured(docs.HandleGet, scope("read")))
	r.Mux.Handle("PATCH /api/v2/{collection}/{id}", secured(docs.HandlePatch, scope("update")))
	r.Mux.Handle("DELETE /api/v2/{collection}/{id}", secured(docs.HandleDelete, scope("delete")))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))

	gatherer := r.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
