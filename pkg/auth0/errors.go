package auth0

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
)

// ============================================================================
// Dispatcher error kinds
// ============================================================================

// Kinds of *Error. Match them with errors.Is.
var (
	ErrTransport = errors.New("auth0: transport")
	ErrToken     = errors.New("auth0: token")
	ErrRateLimit = errors.New("auth0: rate limit")
	ErrAPI       = errors.New("auth0: api")
	ErrDecode    = errors.New("auth0: decode")
	ErrRequest   = errors.New("auth0: request")
)

// Error is returned by Client.Do and Query. Kind is one of the sentinels
// above; Err carries the cause, which is a *TokenError, *RateLimitError or
// *APIError for the corresponding kinds.
type Error struct {
	Kind   error
	Method string
	Path   string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s %s", e.Kind, e.Method, e.Path)
	}
	return fmt.Sprintf("%v: %s %s: %v", e.Kind, e.Method, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return compact(e.Kind, e.Err)
}

// ============================================================================
// Token errors
// ============================================================================

// Kinds of *TokenError.
var (
	ErrTokenTransport    = errors.New("auth0: token request failed")
	ErrTokenAccessDenied = errors.New("auth0: access denied")
	ErrTokenClock        = errors.New("auth0: clock moved backwards")
	ErrTokenDecode       = errors.New("auth0: malformed token response")
)

// TokenError reports why a client-credentials token could not be produced.
type TokenError struct {
	Kind error

	// OAuth is the decoded rejection from the token endpoint. Set only when
	// Kind is ErrTokenAccessDenied.
	OAuth *OAuth2Error

	Err error
}

func (e *TokenError) Error() string {
	switch {
	case e.OAuth != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.OAuth)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *TokenError) Unwrap() []error {
	var oauth error
	if e.OAuth != nil {
		oauth = e.OAuth
	}
	return compact(e.Kind, oauth, e.Err)
}

// Description returns the server supplied reason for an access denial.
func (e *TokenError) Description() string {
	if e.OAuth == nil {
		return ""
	}
	return e.OAuth.Description
}

// ============================================================================
// Rate limit header errors
// ============================================================================

// Kinds of *RateLimitError.
var (
	ErrMissingRateLimitHeader     = errors.New("auth0: missing " + HeaderRateLimitLimit + " header")
	ErrMissingRateRemainingHeader = errors.New("auth0: missing " + HeaderRateLimitRemaining + " header")
	ErrMissingRateResetHeader     = errors.New("auth0: missing " + HeaderRateLimitReset + " header")
	ErrBadHeaderEncoding          = errors.New("auth0: rate limit header is not visible ascii")
	ErrBadHeaderFormat            = errors.New("auth0: rate limit header is not an unsigned integer")
)

// RateLimitError reports a rate-limit header that was absent or unreadable.
type RateLimitError struct {
	Kind   error
	Header string
	Value  string
	Err    error
}

func (e *RateLimitError) Error() string {
	if e.Value == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s=%q", e.Kind, e.Header, e.Value)
}

func (e *RateLimitError) Unwrap() []error {
	return compact(e.Kind, e.Err)
}

// ============================================================================
// OAuth2Error - token endpoint rejection
// ============================================================================

const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeUnauthorizedClient   = "unauthorized_client"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeAccessDenied         = "access_denied"
	ErrorCodeServerError          = "server_error"
)

// OAuth2Error is the {error, error_description} body of the token endpoint.
// It is used both by the client, to carry a rejection, and by servers that
// speak the same protocol, to write one.
type OAuth2Error struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *OAuth2Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error as an OAuth2 JSON response.
func (e *OAuth2Error) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// NewOAuth2Error builds an OAuth2Error.
func NewOAuth2Error(statusCode int, code, description string) *OAuth2Error {
	return &OAuth2Error{StatusCode: statusCode, Code: code, Description: description}
}

// ============================================================================
// APIError - Management API rejection
// ============================================================================

// APIError is a non-2xx answer from the Management API.
type APIError struct {
	StatusCode int

	// Name is the "error" field, usually the HTTP reason phrase.
	Name      string
	Message   string
	ErrorCode string

	// Raw is set when the body was not a recognised error document; Message
	// then holds the body text verbatim.
	Raw bool
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	if e.ErrorCode != "" {
		msg += " (" + e.ErrorCode + ")"
	}
	return msg
}

// WriteError writes the error in the Management API's JSON error shape.
func (e *APIError) WriteError(w http.ResponseWriter) {
	name := e.Name
	if name == "" {
		name = http.StatusText(e.StatusCode)
	}
	httpx.WriteJSON(w, e.StatusCode, APIErrorResponse{
		StatusCode: e.StatusCode,
		Error:      name,
		Message:    e.Message,
		ErrorCode:  e.ErrorCode,
	})
}

// NewAPIError builds an APIError with the reason phrase as its name.
func NewAPIError(statusCode int, message, errorCode string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Name:       http.StatusText(statusCode),
		Message:    message,
		ErrorCode:  errorCode,
	}
}

func compact(errs ...error) []error {
	out := errs[:0:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
