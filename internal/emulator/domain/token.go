package domain

import "time"

// AccessToken is what the token endpoint hands back for a successful grant.
type AccessToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	Scope       string // space-delimited
}
