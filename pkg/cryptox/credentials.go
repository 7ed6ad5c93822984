package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

const (
	clientIDCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	clientIDLength  = 32

	// secretSize is the entropy of a client secret in bytes, 86 characters
	// once base64url encoded.
	secretSize = 64
)

// GenerateClientID returns a 32 character alphanumeric client id, the shape
// Auth0 uses for applications.
func GenerateClientID() (string, error) {
	id := make([]byte, clientIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(clientIDCharset))))
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate client id: %w", err)
		}
		id[i] = clientIDCharset[n.Int64()]
	}
	return string(id), nil
}

// GenerateClientSecret returns a new random client secret, base64url encoded
// without padding.
func GenerateClientSecret() (string, error) {
	buf := make([]byte, secretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate client secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns the base64url SHA-256 of token. Bearer tokens are
// logged by fingerprint only.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
