package auth0

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	// DefaultLeeway is subtracted from a token's lifetime so it is replaced
	// slightly before the server would reject it.
	DefaultLeeway = 30 * time.Second

	// DefaultTimeout applies to the HTTP client built when none is supplied.
	DefaultTimeout = time.Minute
)

// Version is reported in the default User-Agent.
var Version = "0.1.0"

// Option configures a Client or TokenManager.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	clock      Clock
	leeway     time.Duration
	userAgent  string

	strictRateLimit bool
	rateLimitGate   bool
	pacer           *rate.Limiter

	registerer  prometheus.Registerer
	tracing     bool
	tracingOpts []otelhttp.Option
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:    slog.Default(),
		clock:     systemClock{},
		leeway:    DefaultLeeway,
		userAgent: "auth0mgmt-go/" + Version,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithHTTPClient sets the client used for token and API requests. Its
// transport is wrapped, not replaced, and the value passed in is not modified.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the fallback logger. A logger stored in the request context
// with slogx.WithContext takes precedence.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces the wall clock used for token expiry and rate-limit
// resets.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLeeway sets how long before expiry a cached token is replaced. It is
// capped at half the token's lifetime. Zero means tokens are used until the
// exact expiry instant.
func WithLeeway(d time.Duration) Option {
	return func(o *options) { o.leeway = max(d, 0) }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithStrictRateLimit makes an unreadable rate-limit header on a successful
// response an ErrRateLimit error. By default it is only recorded.
func WithStrictRateLimit() Option {
	return func(o *options) { o.strictRateLimit = true }
}

// WithRateLimitGate makes every request wait on RateLimiter.Wait first, so
// the client stops sending once the server-reported budget is spent.
func WithRateLimitGate() Option {
	return func(o *options) { o.rateLimitGate = true }
}

// WithPacing applies a client-side token bucket before every request,
// for tenants whose documented limit is known up front.
func WithPacing(r rate.Limit, burst int) Option {
	return func(o *options) { o.pacer = rate.NewLimiter(r, max(burst, 1)) }
}

// WithMetrics registers client metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithTracing wraps the transport with OpenTelemetry HTTP instrumentation.
func WithTracing(opts ...otelhttp.Option) Option {
	return func(o *options) {
		o.tracing = true
		o.tracingOpts = opts
	}
}

func (o *options) buildHTTPClient() *http.Client {
	var hc http.Client
	if o.httpClient != nil {
		hc = *o.httpClient
	} else {
		hc.Timeout = DefaultTimeout
	}

	rt := hc.Transport
	if o.tracing {
		rt = otelhttp.NewTransport(rt, o.tracingOpts...)
	}

	hc.Transport = httpx.NewTripperChain(
		httpx.UserAgent(o.userAgent),
		httpx.RequestID(),
		slogx.HTTPTransport(o.logger),
	).Then(rt)
	return &hc
}
