package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aussiebroadwan/auth0mgmt/pkg/auth0"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRequestCommand(v *viper.Viper) *cobra.Command {
	var (
		data  string
		query []string
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send one Management API request",
		Long: `Send an authenticated request and print the JSON response.

PATH is relative to the tenant root. --data takes a JSON document, or @file
to read one from a file ("@-" reads stdin).

Example:
  auth0ctl request GET api/v2/users --query per_page=5 --query include_totals=true
  auth0ctl request PATCH 'api/v2/users/auth0%7C123' --data '{"blocked":true}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := auth0.NewRequest(strings.ToUpper(args[0]), args[1])

			for _, kv := range query {
				k, val, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid --query %q, want key=value", kv)
				}
				req = req.WithQuery(k, val)
			}

			if data != "" {
				body, err := readData(cmd.InOrStdin(), data)
				if err != nil {
					return err
				}
				req = req.WithBody(body)
			}

			c, logger, err := newClient(cmd, v)
			if err != nil {
				return err
			}

			var out json.RawMessage
			resp, err := c.Do(cmd.Context(), req, &out)
			logRateLimit(logger, c)
			if err != nil {
				var apiErr *auth0.APIError
				if errors.As(err, &apiErr) && resp != nil && resp.StatusCode == http.StatusTooManyRequests {
					logger.Warn("rate limited", "retry_after", c.RateLimiter().RetryAfter())
				}
				return err
			}

			if len(out) == 0 {
				return nil
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, out, "", "  "); err != nil {
				pretty.Reset()
				pretty.Write(out)
			}
			pretty.WriteByte('\n')
			_, err = pretty.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body, @file or @- for stdin")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value (repeatable)")
	return cmd
}

// readData returns the --data document as a json.RawMessage after checking
// it parses.
func readData(stdin io.Reader, data string) (json.RawMessage, error) {
	raw := []byte(data)
	if name, ok := strings.CutPrefix(data, "@"); ok {
		var err error
		if name == "-" {
			raw, err = io.ReadAll(stdin)
		} else {
			raw, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read --data: %w", err)
		}
	}

	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, errors.New("--data is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
