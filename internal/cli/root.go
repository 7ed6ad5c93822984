// Package cli implements auth0ctl, a small command line front end for the
// Management API client.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every flag when it is read from the
// environment, e.g. AUTH0_CLIENT_ID for --client-id.
const EnvPrefix = "AUTH0"

// NewRootCommand builds the auth0ctl command tree.
func NewRootCommand(version string) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "auth0ctl",
		Short: "Talk to the Auth0 Management API",
		Long: `auth0ctl fetches client-credentials tokens and sends Management API
requests for one tenant, honouring the tenant's rate-limit headers.

Every flag can also be set as an AUTH0_* environment variable
(--client-secret is AUTH0_CLIENT_SECRET) or in a config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd)
		},
	}

	addConnectionFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newTokenCommand(v))
	rootCmd.AddCommand(newRequestCommand(v))

	return rootCmd
}
