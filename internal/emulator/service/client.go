package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store"
	"github.com/aussiebroadwan/auth0mgmt/pkg/cryptox"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
)

type ClientService struct {
	Store store.Store
}

// CreateClient creates a machine-to-machine application with a generated id
// and secret. The plaintext secret is only ever returned here.
func (s *ClientService) CreateClient(
	ctx context.Context,
	name string,
	scopes []string,
) (domain.Client, string, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	clientID, err := cryptox.GenerateClientID()
	if err != nil {
		return domain.Client{}, "", err
	}
	secret, err := cryptox.GenerateClientSecret()
	if err != nil {
		l.Error("failed to generate client secret", "error", err)
		return domain.Client{}, "", err
	}

	c, err := s.insert(ctx, clientID, secret, name, scopes, false)
	if err != nil {
		l.Error("failed to create client", "error", err)
		return domain.Client{}, "", err
	}

	l.Info("client created", "client_id", c.ID, "name", c.Name)
	return c, secret, nil
}

func (s *ClientService) insert(
	ctx context.Context,
	clientID, secret, name string,
	scopes []string,
	protected bool,
) (domain.Client, error) {
	hash, err := cryptox.HashSecret(secret)
	if err != nil {
		return domain.Client{}, err
	}

	now := time.Now().UTC()
	c := domain.Client{
		ID:         clientID,
		Name:       name,
		SecretHash: hash,
		Scopes:     dedupe(scopes),
		Protected:  protected,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Clients().CreateClient(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

// GetClient returns a client by id.
func (s *ClientService) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	c, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	return c, err
}

// ListClients returns all clients.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.Store.Clients().ListClients(ctx)
}

// DeleteClient deletes a client by id. The seed client is protected.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) error {
	l := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Clients().GetClientByID(ctx, clientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		if c.Protected {
			return ErrClientProtected
		}
		return tx.Clients().DeleteClient(ctx, clientID)
	})
	switch {
	case errors.Is(err, ErrClientProtected):
		l.Warn("attempted to delete protected client", "client_id", clientID)
		return err
	case err != nil:
		return err
	}

	l.Info("client deleted", "client_id", clientID)
	return nil
}
