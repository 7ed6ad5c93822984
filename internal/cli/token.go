package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type tokenOutput struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newTokenCommand(v *viper.Viper) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Fetch a client-credentials access token",
		Long: `Fetch an access token for the configured audience and print it.

Example:
  export AUTH0_DOMAIN=tenant.eu.auth0.com AUTH0_CLIENT_ID=... AUTH0_CLIENT_SECRET=...
  curl -H "Authorization: Bearer $(auth0ctl token)" https://$AUTH0_DOMAIN/api/v2/users`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := newClient(cmd, v)
			if err != nil {
				return err
			}

			raw, err := c.Tokens().Token(cmd.Context())
			if err != nil {
				return err
			}

			if !asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), raw)
				return err
			}

			out := tokenOutput{AccessToken: raw, TokenType: "Bearer"}
			if cached, ok := c.Tokens().Cached(); ok && cached.AccessToken == raw {
				out.ExpiresIn = int64(cached.ExpiresIn.Seconds())
				out.ExpiresAt = cached.ExpiresAt().UTC()
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the token with its expiry as JSON")
	return cmd
}
