package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/service"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store/drivers/sqlite"
	"github.com/aussiebroadwan/auth0mgmt/pkg/cryptox"
	"github.com/aussiebroadwan/auth0mgmt/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://tenant.example.com/"
	testAudience = "https://tenant.example.com/api/v2/"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("service-test-pepper")
	os.Exit(m.Run())
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "emu.db") + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newSigner(t *testing.T) (jwtx.Signer, jwtx.Verifier) {
	t.Helper()

	pem, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-kid", pem)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	return signer, jwtx.NewCommonEdDSA(keys, testIssuer, []string{testAudience})
}

func newServices(t *testing.T) (*service.TokenService, *service.ClientService, jwtx.Verifier) {
	t.Helper()

	st := newStore(t)
	signer, verifier := newSigner(t)
	return &service.TokenService{
			Store:    st,
			Signer:   signer,
			Issuer:   testIssuer,
			Audience: testAudience,
		},
		&service.ClientService{Store: st},
		verifier
}
