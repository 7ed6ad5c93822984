package auth0

import (
	"errors"
	"strings"
)

var (
	ErrMissingDomain       = errors.New("auth0: missing domain")
	ErrMissingAudience     = errors.New("auth0: missing audience")
	ErrMissingClientID     = errors.New("auth0: missing client id")
	ErrMissingClientSecret = errors.New("auth0: missing client secret")
)

// Config holds the tenant and machine-to-machine application credentials the
// client authenticates with. Every field is required.
type Config struct {
	// Domain is the tenant host, e.g. "tenant.eu.auth0.com". A scheme or
	// trailing slash is tolerated and stripped; requests always use https.
	Domain string

	// Audience is the API identifier the token is requested for. For the
	// Management API this is DefaultAudience(Domain).
	Audience string

	ClientID     string
	ClientSecret string
}

// Validate reports every missing field. The returned error matches each of
// the corresponding ErrMissing* sentinels with errors.Is.
func (c Config) Validate() error {
	var errs []error
	if normalizeDomain(c.Domain) == "" {
		errs = append(errs, ErrMissingDomain)
	}
	if strings.TrimSpace(c.Audience) == "" {
		errs = append(errs, ErrMissingAudience)
	}
	if strings.TrimSpace(c.ClientID) == "" {
		errs = append(errs, ErrMissingClientID)
	}
	if c.ClientSecret == "" {
		errs = append(errs, ErrMissingClientSecret)
	}
	return errors.Join(errs...)
}

// DefaultAudience returns the Management API identifier for a tenant domain.
func DefaultAudience(domain string) string {
	return "https://" + normalizeDomain(domain) + "/api/v2/"
}

func normalizeDomain(domain string) string {
	d := strings.TrimSpace(domain)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimRight(d, "/")
}
