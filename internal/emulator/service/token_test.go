package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/service"
	"github.com/aussiebroadwan/auth0mgmt/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestExchangeClientCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokens, clients, verifier := newServices(t)

	c, secret, err := clients.CreateClient(ctx, "ops", []string{"read:users", "create:users"})
	require.NoError(t, err)

	t.Run("all granted scopes by default", func(t *testing.T) {
		tok, err := tokens.ExchangeClientCredentials(ctx, c.ID, secret, testAudience, nil)
		require.NoError(t, err)
		require.Equal(t, "Bearer", tok.TokenType)
		require.Equal(t, jwtx.DefaultAccessTokenTTL, tok.ExpiresIn)
		require.Equal(t, "read:users create:users", tok.Scope)

		claims, err := verifier.Verify(tok.AccessToken)
		require.NoError(t, err)
		require.Equal(t, c.ID+"@clients", claims.Subject)
		require.Equal(t, c.ID, claims.AuthorizedParty)
		require.Equal(t, jwtx.GrantClientCredentials, claims.GrantType)
		require.True(t, claims.HasScope("create:users"))
	})

	t.Run("empty audience means the management api", func(t *testing.T) {
		_, err := tokens.ExchangeClientCredentials(ctx, c.ID, secret, "", nil)
		require.NoError(t, err)
	})

	t.Run("requested subset", func(t *testing.T) {
		tok, err := tokens.ExchangeClientCredentials(ctx, c.ID, secret, testAudience, []string{"read:users", "read:users"})
		require.NoError(t, err)
		require.Equal(t, "read:users", tok.Scope)
	})

	t.Run("scope not granted", func(t *testing.T) {
		_, err := tokens.ExchangeClientCredentials(ctx, c.ID, secret, testAudience, []string{"delete:users"})
		require.ErrorIs(t, err, service.ErrInvalidScope)

		var se *service.ScopeError
		require.ErrorAs(t, err, &se)
		require.Equal(t, "delete:users", se.Scope)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := tokens.ExchangeClientCredentials(ctx, c.ID, "nope", testAudience, nil)
		require.ErrorIs(t, err, service.ErrInvalidClient)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := tokens.ExchangeClientCredentials(ctx, "missing", secret, testAudience, nil)
		require.ErrorIs(t, err, service.ErrInvalidClient)
	})

	t.Run("foreign audience", func(t *testing.T) {
		_, err := tokens.ExchangeClientCredentials(ctx, c.ID, secret, "https://api.example.com/", nil)
		require.ErrorIs(t, err, service.ErrInvalidAudience)
	})
}

func TestExchangeClientCredentialsTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokens, clients, verifier := newServices(t)
	tokens.AccessTTL = time.Minute
	issued := time.Now().Truncate(time.Second)
	tokens.Now = func() time.Time { return issued }

	c, secret, err := clients.CreateClient(ctx, "short", []string{"read:roles"})
	require.NoError(t, err)

	tok, err := tokens.ExchangeClientCredentials(ctx, c.ID, secret, testAudience, nil)
	require.NoError(t, err)
	require.Equal(t, time.Minute, tok.ExpiresIn)

	claims, err := verifier.Verify(tok.AccessToken)
	require.NoError(t, err)
	require.True(t, issued.Add(time.Minute).Equal(claims.ExpiresAt.Time))
}
