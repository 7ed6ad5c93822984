package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/auth0mgmt/pkg/cryptox"
	"github.com/aussiebroadwan/auth0mgmt/pkg/idx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/jwtx"
)

// Keys bundles the signing key with the key set and verifier built from it.
type Keys struct {
	Signer   jwtx.Signer
	KeySet   *jwtx.KeySet
	Verifier jwtx.Verifier
}

// InitKeys loads the Ed25519 signing key from cfg.SigningKeyFile, creating
// the file on first start. Without a key file the key is ephemeral and every
// token issued before a restart stops verifying.
func InitKeys(cfg Config, logger *slog.Logger) (*Keys, error) {
	pemKey, persisted, err := loadOrGenerateKey(cfg.SigningKeyFile)
	if err != nil {
		return nil, err
	}

	kid := idx.Prefixed("key")
	if persisted {
		// Stable across restarts so tokens issued earlier still resolve.
		kid = cryptox.KeyID(pemKey)
	}

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to publish signing key: %w", err)
	}

	if persisted {
		logger.Info("signing key loaded", "kid", signer.KID(), "file", cfg.SigningKeyFile)
	} else {
		logger.Warn("generated ephemeral signing key, tokens will not survive a restart", "kid", signer.KID())
	}

	return &Keys{
		Signer:   signer,
		KeySet:   keys,
		Verifier: jwtx.NewCommonEdDSA(keys, cfg.Issuer(), []string{cfg.Audience()}),
	}, nil
}

func loadOrGenerateKey(file string) (pemKey []byte, persisted bool, err error) {
	if file == "" {
		pemKey, err = cryptox.GenerateEd25519Key()
		return pemKey, false, err
	}

	file = filepath.Clean(file)
	pemKey, err = os.ReadFile(file)
	if err == nil {
		return pemKey, true, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("failed to read signing key: %w", err)
	}

	if pemKey, err = cryptox.GenerateEd25519Key(); err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(file, pemKey, 0600); err != nil {
		return nil, false, fmt.Errorf("failed to write signing key: %w", err)
	}
	return pemKey, true, nil
}
