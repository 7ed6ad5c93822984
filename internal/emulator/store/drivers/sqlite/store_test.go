package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations(), "migrations are idempotent")
	return s
}

func TestClients(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	empty, err := s.Clients().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	c := domain.Client{
		ID:         "abc",
		Name:       "ops",
		SecretHash: "$argon2id$...",
		Scopes:     []string{"read:users", "create:users"},
		Protected:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.Clients().CreateClient(ctx, c))
	require.ErrorIs(t, s.Clients().CreateClient(ctx, c), store.ErrAlreadyExists)

	got, err := s.Clients().GetClientByID(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, c.Scopes, got.Scopes)
	require.True(t, got.Protected)
	require.True(t, now.Equal(got.CreatedAt))

	list, err := s.Clients().ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Clients().DeleteClient(ctx, "abc"))
	require.ErrorIs(t, s.Clients().DeleteClient(ctx, "abc"), store.ErrNotFound)

	_, err = s.Clients().GetClientByID(ctx, "abc")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestResources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		at := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, s.Resources().CreateResource(ctx, domain.Resource{
			Collection: "roles",
			ID:         id,
			Body:       map[string]any{"id": id, "name": "role " + id},
			CreatedAt:  at,
			UpdatedAt:  at,
		}))
	}
	require.NoError(t, s.Resources().CreateResource(ctx, domain.Resource{
		Collection: "users", ID: "r1", Body: map[string]any{"user_id": "r1"}, CreatedAt: base, UpdatedAt: base,
	}), "ids are scoped to their collection")

	err := s.Resources().CreateResource(ctx, domain.Resource{Collection: "roles", ID: "r1", CreatedAt: base, UpdatedAt: base})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	n, err := s.Resources().CountResources(ctx, "roles")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	page, err := s.Resources().ListResources(ctx, "roles", domain.Page{Page: 0, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "r1", page[0].ID)
	require.Equal(t, "r2", page[1].ID)

	page, err = s.Resources().ListResources(ctx, "roles", domain.Page{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "r3", page[0].ID)

	res, err := s.Resources().GetResource(ctx, "roles", "r2")
	require.NoError(t, err)
	require.Equal(t, "role r2", res.Body["name"])

	res.Body["description"] = "updated"
	res.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, s.Resources().UpdateResource(ctx, res))

	res, err = s.Resources().GetResource(ctx, "roles", "r2")
	require.NoError(t, err)
	require.Equal(t, "updated", res.Body["description"])
	require.True(t, base.Add(time.Hour).Equal(res.UpdatedAt))

	require.ErrorIs(t, s.Resources().UpdateResource(ctx, domain.Resource{Collection: "roles", ID: "nope"}), store.ErrNotFound)
	require.NoError(t, s.Resources().DeleteResource(ctx, "roles", "r2"))
	require.ErrorIs(t, s.Resources().DeleteResource(ctx, "roles", "r2"), store.ErrNotFound)
	_, err = s.Resources().GetResource(ctx, "roles", "r2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Resources().CreateResource(ctx, domain.Resource{Collection: "roles", ID: "tx", CreatedAt: now, UpdatedAt: now}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Resources().GetResource(ctx, "roles", "tx")
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back")

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Resources().CreateResource(ctx, domain.Resource{Collection: "roles", ID: "tx", CreatedAt: now, UpdatedAt: now})
	})
	require.NoError(t, err)

	res, err := s.Resources().GetResource(ctx, "roles", "tx")
	require.NoError(t, err)
	require.Empty(t, res.Body)
}
