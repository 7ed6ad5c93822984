package auth0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"golang.org/x/time/rate"
)

// Client dispatches authenticated requests to the Management API of one
// tenant.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  *TokenManager
	limits  *RateLimiter
	logger  *slog.Logger
	metrics *metrics

	pacer  *rate.Limiter
	gate   bool
	strict bool
}

// Response carries the metadata of a completed exchange.
type Response struct {
	StatusCode int
	Header     http.Header

	// RateLimitErr is the result of reading the rate-limit headers of this
	// response. It is informational unless WithStrictRateLimit is set.
	RateLimitErr error
}

// New validates cfg and returns a client. No network traffic happens until
// the first request.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	hc := o.buildHTTPClient()
	m := newMetrics(o.registerer)

	return &Client{
		baseURL: &url.URL{Scheme: "https", Host: normalizeDomain(cfg.Domain), Path: "/"},
		http:    hc,
		tokens:  newTokenManager(cfg, o, hc, m),
		limits:  NewRateLimiter(o.clock),
		logger:  o.logger,
		metrics: m,
		pacer:   o.pacer,
		gate:    o.rateLimitGate,
		strict:  o.strictRateLimit,
	}, nil
}

// Tokens returns the client's token manager.
func (c *Client) Tokens() *TokenManager { return c.tokens }

// RateLimiter returns the client's rate-limit bookkeeping.
func (c *Client) RateLimiter() *RateLimiter { return c.limits }

// Do sends req and decodes a successful response body into out, which must
// be a pointer or nil. An empty body leaves out untouched.
//
// The returned *Response is non-nil whenever a response was received, even
// if err is also non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	method, path := req.Method(), req.Path()
	fail := func(kind, err error) error {
		return &Error{Kind: kind, Method: method, Path: path, Err: err}
	}
	log := slogx.FromContextOr(ctx, c.logger)

	if c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, fail(ErrRateLimit, err)
		}
	}
	if c.gate {
		if err := c.limits.Wait(ctx); err != nil {
			return nil, fail(ErrRateLimit, err)
		}
	}

	target, err := c.resolve(req)
	if err != nil {
		return nil, fail(ErrRequest, err)
	}

	payload, err := encodeBody(req)
	if err != nil {
		return nil, fail(ErrRequest, err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fail(ErrToken, err)
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fail(ErrRequest, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.observeRequest(method, "error", time.Since(start))
		return nil, fail(ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.metrics.observeRequest(method, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fail(ErrTransport, fmt.Errorf("failed to read response body: %w", err))
	}

	result := &Response{StatusCode: resp.StatusCode, Header: resp.Header}
	if rlErr := c.limits.Read(resp.Header); rlErr != nil {
		result.RateLimitErr = rlErr
		log.Debug("auth0 rate limit headers unreadable", "method", method, "path", path, "err", rlErr)
	} else {
		c.metrics.observeRateLimit(c.limits.State())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, fail(ErrAPI, parseAPIError(resp.StatusCode, raw))
	}

	if err := decodeBody(resp.Header.Get("Content-Type"), raw, out); err != nil {
		return result, fail(ErrDecode, err)
	}

	if c.strict && result.RateLimitErr != nil {
		return result, fail(ErrRateLimit, result.RateLimitErr)
	}
	return result, nil
}

// Query sends req and decodes the response into a T. With
// WithStrictRateLimit, an ErrRateLimit error is returned alongside the
// decoded value.
func Query[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	_, err := c.Do(ctx, req, &out)
	return out, err
}

func (c *Client) resolve(req Request) (*url.URL, error) {
	p := req.Path()
	ref, err := url.Parse(strings.TrimLeft(p, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", p, err)
	}
	if ref.Scheme != "" || ref.Host != "" {
		return nil, fmt.Errorf("path %q must be relative to the tenant", p)
	}

	u := c.baseURL.ResolveReference(ref)
	if q, ok := req.(QueryRequest); ok {
		if extra := q.Query(); len(extra) > 0 {
			values := u.Query()
			for k, vs := range extra {
				for _, v := range vs {
					values.Add(k, v)
				}
			}
			u.RawQuery = values.Encode()
		}
	}
	return u, nil
}

func encodeBody(req Request) ([]byte, error) {
	br, ok := req.(BodyRequest)
	if !ok {
		return nil, nil
	}
	v := br.Body()
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	return b, nil
}

// decodeBody decodes raw into out. Bodies not labelled as JSON are still
// tried as JSON first and otherwise handed over as a JSON string, so text
// responses land in *string or *any targets.
func decodeBody(contentType string, raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	err := json.Unmarshal(raw, out)
	if err == nil || isJSON(contentType) {
		return err
	}

	quoted, qerr := json.Marshal(string(raw))
	if qerr == nil && json.Unmarshal(quoted, out) == nil {
		return nil
	}
	return err
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// parseAPIError decodes a Management API error body. Token-endpoint style
// {error, error_description} bodies are accepted too; anything else becomes a
// raw error carrying the body text.
func parseAPIError(status int, raw []byte) *APIError {
	var body struct {
		APIErrorResponse
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &body); err == nil &&
		(body.Message != "" || body.Error != "" || body.ErrorDescription != "") {
		msg := body.Message
		if msg == "" {
			msg = body.ErrorDescription
		}
		return &APIError{
			StatusCode: status,
			Name:       body.Error,
			Message:    msg,
			ErrorCode:  body.ErrorCode,
		}
	}

	return &APIError{
		StatusCode: status,
		Name:       http.StatusText(status),
		Message:    strings.TrimSpace(string(raw)),
		Raw:        true,
	}
}
