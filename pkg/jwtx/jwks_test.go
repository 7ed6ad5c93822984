package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWK_PEM_Ed25519(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	jwk := NewEd25519JWK("test-key-id", "sig", "EdDSA", publicKey)

	pemStr, err := jwk.PEM()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(pemStr, "-----BEGIN PUBLIC KEY-----"))
	require.True(t, strings.HasSuffix(strings.TrimSpace(pemStr), "-----END PUBLIC KEY-----"))

	block, _ := pem.Decode([]byte(pemStr))
	require.NotNil(t, block, "PEM block should be valid")
	require.Equal(t, "PUBLIC KEY", block.Type)

	parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)

	ed25519PubKey, ok := parsedKey.(ed25519.PublicKey)
	require.True(t, ok, "Parsed key should be an Ed25519 public key")
	require.Equal(t, publicKey, ed25519PubKey)
}

func TestJWK_PEM_UnsupportedKeyType(t *testing.T) {
	jwk := JWK{Kty: "RSA", Kid: "test-key"}

	_, err := jwk.PEM()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported kty")
}

func TestJWK_PEM_InvalidBase64(t *testing.T) {
	jwk := JWK{Kty: "OKP", Crv: "Ed25519", Kid: "test-key", X: "!!!invalid-base64!!!"}

	_, err := jwk.PEM()
	require.Error(t, err)
}

func TestJWKSEncoding(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ks := NewKeySet()
	require.False(t, ks.IsReady())
	require.NoError(t, ks.AddJWK(NewEd25519JWK("k1", "sig", "EdDSA", publicKey)))
	require.True(t, ks.IsReady())

	raw, err := json.Marshal(ks.PublicJWKS())
	require.NoError(t, err)

	var decoded map[string][]map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded["keys"], 1)
	require.Equal(t, "OKP", decoded["keys"][0]["kty"])
	require.Equal(t, "k1", decoded["keys"][0]["kid"])
	require.NotContains(t, decoded["keys"][0], "y")
}
