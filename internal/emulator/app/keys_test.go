package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/pkg/jwtx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInitKeys(t *testing.T) {
	t.Parallel()

	cfg := Config{Domain: "tenant.test"}

	t.Run("ephemeral", func(t *testing.T) {
		t.Parallel()

		a, err := InitKeys(cfg, slogx.Discard())
		require.NoError(t, err)
		b, err := InitKeys(cfg, slogx.Discard())
		require.NoError(t, err)

		require.NotEqual(t, a.Signer.KID(), b.Signer.KID())
		require.True(t, a.KeySet.IsReady())
	})

	t.Run("persisted key keeps its kid", func(t *testing.T) {
		t.Parallel()

		cfg := cfg
		cfg.SigningKeyFile = filepath.Join(t.TempDir(), "keys", "signing.pem")

		first, err := InitKeys(cfg, slogx.Discard())
		require.NoError(t, err)

		claims := jwtx.NewClientCredentialsClaims("client", []string{"read:users"}, time.Hour, cfg.Issuer(), cfg.Audience(), time.Now())
		token, err := first.Signer.Sign(claims)
		require.NoError(t, err)

		second, err := InitKeys(cfg, slogx.Discard())
		require.NoError(t, err)
		require.Equal(t, first.Signer.KID(), second.Signer.KID())

		got, err := second.Verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "client@clients", got.Subject)
	})
}
