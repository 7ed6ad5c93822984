package auth0

import (
	"net/http"
	"net/url"
	"strings"
)

// Request describes one Management API call. Path is relative to the tenant
// root, e.g. "api/v2/users"; a leading slash is optional and escaped
// segments are kept as given.
type Request interface {
	Method() string
	Path() string
}

// BodyRequest is a Request with a JSON body. A nil Body sends no body.
type BodyRequest interface {
	Request
	Body() any
}

// QueryRequest is a Request with query string parameters.
type QueryRequest interface {
	Request
	Query() url.Values
}

// Endpoint is a plain Request value that also satisfies BodyRequest and
// QueryRequest.
type Endpoint struct {
	HTTPMethod string
	RelPath    string
	Params     url.Values
	Payload    any
}

// NewRequest returns an Endpoint for method and path.
func NewRequest(method, path string) Endpoint {
	return Endpoint{HTTPMethod: method, RelPath: path}
}

func (e Endpoint) Method() string {
	if e.HTTPMethod == "" {
		return http.MethodGet
	}
	return e.HTTPMethod
}

func (e Endpoint) Path() string      { return e.RelPath }
func (e Endpoint) Query() url.Values { return e.Params }
func (e Endpoint) Body() any         { return e.Payload }

// WithQuery returns a copy of e with values appended to key.
func (e Endpoint) WithQuery(key string, values ...string) Endpoint {
	params := make(url.Values, len(e.Params)+1)
	for k, vs := range e.Params {
		params[k] = append([]string(nil), vs...)
	}
	params[key] = append(params[key], values...)
	e.Params = params
	return e
}

// WithBody returns a copy of e that sends body as JSON.
func (e Endpoint) WithBody(body any) Endpoint {
	e.Payload = body
	return e
}

// Path joins base with path-escaped segments:
//
//	Path("api/v2/users", "auth0|123") == "api/v2/users/auth0%7C123"
func Path(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
