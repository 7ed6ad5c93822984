package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/auth0mgmt/internal/emulator/http"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/service"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store/drivers/sqlite"
	"github.com/aussiebroadwan/auth0mgmt/pkg/cryptox"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the emulator with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db   store.Store
	keys *Keys

	// Services
	tokenService     *service.TokenService
	clientService    *service.ClientService
	resourceService  *service.ResourceService
	bootstrapService *service.BootstrapService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
// and the seed client in place.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth0-emulator",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keys = keys

	app.initServices()

	if _, _, err := app.bootstrapService.EnsureSeedClient(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to create seed client: %w", err)
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler returns the instrumented root handler.
func (app *Application) Handler() http.Handler {
	return app.server.Handler
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth0 emulator starting",
		"port", app.cfg.Port,
		"domain", app.cfg.Domain,
		"tls", app.cfg.TLSMode,
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.listen()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func (app *Application) listen() error {
	switch {
	case app.cfg.TLSMode == "off":
		return app.server.ListenAndServe()
	case app.cfg.TLSCertFile != "":
		return app.server.ListenAndServeTLS(app.cfg.TLSCertFile, app.cfg.TLSKeyFile)
	default:
		// Certificate already set in TLSConfig
		return app.server.ListenAndServeTLS("", "")
	}
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth0 emulator...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth0 emulator stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Store:     app.db,
		Signer:    app.keys.Signer,
		Issuer:    app.cfg.Issuer(),
		Audience:  app.cfg.Audience(),
		AccessTTL: app.cfg.AccessTokenTTL,
	}
	app.clientService = &service.ClientService{Store: app.db}
	app.resourceService = &service.ResourceService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store:        app.db,
		Clients:      app.clientService,
		Logger:       app.logger,
		ClientID:     app.cfg.SeedClientID,
		ClientSecret: app.cfg.SeedClientSecret,
		Scopes:       app.cfg.SeedClientScopes,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.ManagementLimit = app.cfg.ManagementLimit
	router.TokenLimit = app.cfg.TokenLimit
	router.TokenService = app.tokenService
	router.ClientService = app.clientService
	router.ResourceService = app.resourceService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           otelhttp.NewHandler(router, "auth0-emulator"),
		ReadHeaderTimeout: 3 * time.Second,
	}

	if app.cfg.TLSMode != "off" && app.cfg.TLSCertFile == "" {
		cert, err := cryptox.SelfSignedTLS([]string{app.cfg.Host(), "localhost", "127.0.0.1"}, 365*24*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to create self-signed certificate: %w", err)
		}
		app.server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		app.logger.Warn("serving a self-signed certificate", "host", app.cfg.Host())
	}

	return nil
}
