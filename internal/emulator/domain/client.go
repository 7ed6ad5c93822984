package domain

import "time"

// Client is a machine-to-machine application allowed to use the
// client-credentials grant.
type Client struct {
	ID         string
	Name       string
	SecretHash string // argon2id PHC string
	Scopes     []string
	Protected  bool // the seed client cannot be deleted
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Grants reports whether every scope in requested was granted to the client.
// It returns the first missing scope otherwise.
func (c Client) Grants(requested []string) (missing string, ok bool) {
	have := make(map[string]struct{}, len(c.Scopes))
	for _, s := range c.Scopes {
		have[s] = struct{}{}
	}
	for _, s := range requested {
		if _, found := have[s]; !found {
			return s, false
		}
	}
	return "", true
}
