package cli

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/pkg/auth0"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagConfig       = "config"
	flagDomain       = "domain"
	flagAudience     = "audience"
	flagClientID     = "client-id"
	flagClientSecret = "client-secret"
	flagInsecure     = "insecure"
	flagTimeout      = "timeout"
	flagLogLevel     = "log-level"
	flagWait         = "wait"
)

func addConnectionFlags(flags *pflag.FlagSet) {
	flags.String(flagConfig, "", "config file (yaml, json or toml)")
	flags.String(flagDomain, "", "tenant domain, e.g. tenant.eu.auth0.com")
	flags.String(flagAudience, "", "token audience (default https://<domain>/api/v2/)")
	flags.String(flagClientID, "", "machine-to-machine client id")
	flags.String(flagClientSecret, "", "machine-to-machine client secret")
	flags.Bool(flagInsecure, false, "skip TLS verification, for local emulators only")
	flags.Duration(flagTimeout, auth0.DefaultTimeout, "per request timeout")
	flags.String(flagLogLevel, "warn", "log level (debug, info, warn, error)")
	flags.Bool(flagWait, false, "wait for the rate-limit window instead of sending over budget")
}

// loadConfig layers flags over AUTH0_* variables over the config file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if file := v.GetString(flagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}
	return nil
}

// settings is the resolved connection configuration.
type settings struct {
	Config   auth0.Config
	Insecure bool
	Timeout  time.Duration
	LogLevel string
	Wait     bool
}

func resolveSettings(v *viper.Viper) settings {
	s := settings{
		Config: auth0.Config{
			Domain:       v.GetString(flagDomain),
			Audience:     v.GetString(flagAudience),
			ClientID:     v.GetString(flagClientID),
			ClientSecret: v.GetString(flagClientSecret),
		},
		Insecure: v.GetBool(flagInsecure),
		Timeout:  v.GetDuration(flagTimeout),
		LogLevel: v.GetString(flagLogLevel),
		Wait:     v.GetBool(flagWait),
	}
	if s.Config.Audience == "" && s.Config.Domain != "" {
		s.Config.Audience = auth0.DefaultAudience(s.Config.Domain)
	}
	return s
}

func newClient(cmd *cobra.Command, v *viper.Viper) (*auth0.Client, *slog.Logger, error) {
	s := resolveSettings(v)

	logger := slogx.New(slogx.Config{
		Service: "auth0ctl",
		Version: cmd.Root().Version,
		Env:     "cli",
		Level:   s.LogLevel,
		Format:  "text",
		Output:  cmd.ErrOrStderr(),
	})

	opts := []auth0.Option{
		auth0.WithLogger(logger),
		auth0.WithUserAgent("auth0ctl/" + cmd.Root().Version),
	}
	if s.Insecure {
		logger.Warn("TLS verification disabled")
		opts = append(opts, auth0.WithHTTPClient(insecureClient(s.Timeout)))
	} else if s.Timeout > 0 {
		opts = append(opts, auth0.WithHTTPClient(&http.Client{Timeout: s.Timeout}))
	}
	if s.Wait {
		opts = append(opts, auth0.WithRateLimitGate())
	}

	c, err := auth0.New(s.Config, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, logger, nil
}

func insecureClient(timeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for emulators
	return &http.Client{Transport: tr, Timeout: timeout}
}

// logRateLimit reports the tenant budget left after a request.
func logRateLimit(l *slog.Logger, c *auth0.Client) {
	s := c.RateLimiter().State()
	if !s.Known {
		return
	}
	l.Info("rate limit", "limit", s.Limit, "remaining", s.Remaining, "reset_at", s.ResetAt.Format(time.RFC3339))
}
