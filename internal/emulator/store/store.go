package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories keep concerns
// apart and make it obvious when code is running inside a transaction.
type Store interface {
	Clients() Clients
	Resources() Resources

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	GetClientByID(ctx context.Context, id string) (domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)

	// CreateClient returns ErrAlreadyExists when the id is taken.
	CreateClient(ctx context.Context, c domain.Client) error

	DeleteClient(ctx context.Context, id string) error
	IsEmpty(ctx context.Context) (bool, error)
}

type Resources interface {
	GetResource(ctx context.Context, collection, id string) (domain.Resource, error)

	// ListResources returns a page of a collection ordered by creation.
	ListResources(ctx context.Context, collection string, page domain.Page) ([]domain.Resource, error)
	CountResources(ctx context.Context, collection string) (int, error)

	// CreateResource returns ErrAlreadyExists when the id is taken.
	CreateResource(ctx context.Context, r domain.Resource) error

	// UpdateResource replaces the stored body and updated_at. It returns
	// ErrNotFound when nothing was updated.
	UpdateResource(ctx context.Context, r domain.Resource) error

	// DeleteResource returns ErrNotFound when nothing was deleted.
	DeleteResource(ctx context.Context, collection, id string) error
}
