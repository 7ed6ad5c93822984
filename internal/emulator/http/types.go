package http

// CreateClientRequest is the body of POST /api/v2/clients.
type CreateClientRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes,omitempty"`
}

// ClientResponse describes a machine-to-machine application. ClientSecret is
// only present in the response to its creation.
type ClientResponse struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty"`
	Name         string   `json:"name"`
	AppType      string   `json:"app_type"`
	GrantTypes   []string `json:"grant_types"`
	Scopes       []string `json:"scopes"`
	Protected    bool     `json:"protected"`
	CreatedAt    string   `json:"created_at"`
}

// TokenRequest is the JSON form of a token request. Form encoded bodies use
// the same field names.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Audience     string `json:"audience"`
	Scope        string `json:"scope"`
}
