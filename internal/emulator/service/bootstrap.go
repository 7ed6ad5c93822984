package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store"
	"github.com/aussiebroadwan/auth0mgmt/pkg/cryptox"
)

// BootstrapService creates the protected seed client on an empty store so
// the emulator can be used without any manual setup.
type BootstrapService struct {
	Store   store.Store
	Clients *ClientService
	Logger  *slog.Logger

	ClientID     string // generated when empty
	ClientSecret string // generated when empty
	Scopes       []string
}

// SeedClientName is the name given to the bootstrap client.
const SeedClientName = "Emulator Seed Client"

// EnsureSeedClient creates the seed client unless clients already exist.
// It reports whether a client was created; the credentials are logged only
// when they were generated.
func (s *BootstrapService) EnsureSeedClient(ctx context.Context) (domain.Client, bool, error) {
	empty, err := s.Store.Clients().IsEmpty(ctx)
	if err != nil {
		return domain.Client{}, false, err
	}
	if !empty {
		return domain.Client{}, false, nil
	}

	id, secret := s.ClientID, s.ClientSecret
	generated := false
	if id == "" {
		if id, err = cryptox.GenerateClientID(); err != nil {
			return domain.Client{}, false, err
		}
	}
	if secret == "" {
		if secret, err = cryptox.GenerateClientSecret(); err != nil {
			return domain.Client{}, false, err
		}
		generated = true
	}

	c, err := s.Clients.insert(ctx, id, secret, SeedClientName, s.Scopes, true)
	if err != nil {
		return domain.Client{}, false, err
	}

	if generated {
		// Shown once, the secret is not recoverable from the store.
		s.Logger.Warn("seed client created with a generated secret",
			"client_id", c.ID,
			"client_secret", secret,
		)
	} else {
		s.Logger.Info("seed client created", "client_id", c.ID, "scopes", len(c.Scopes))
	}
	return c, true, nil
}
