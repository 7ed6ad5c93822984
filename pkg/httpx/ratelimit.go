package httpx

import (
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
	"golang.org/x/time/rate"
)

// Rate limit headers, as the Management API sends them.
const (
	HeaderRateLimitLimit     = "x-ratelimit-limit"
	HeaderRateLimitRemaining = "x-ratelimit-remaining"
	HeaderRateLimitReset     = "x-ratelimit-reset"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst is the bucket size and the value reported as x-ratelimit-limit
	Burst int
}

var (
	// ManagementLimit mirrors the free tier Management API budget: a bucket
	// of 10 refilled at 2 per second.
	// Override with: RATELIMIT_MANAGEMENT_REQUESTS, RATELIMIT_MANAGEMENT_WINDOW_SEC, RATELIMIT_MANAGEMENT_BURST
	ManagementLimit = RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Second,
		Burst:             10,
	}

	// TokenLimit guards /oauth/token per client id.
	// Override with: RATELIMIT_TOKEN_REQUESTS, RATELIMIT_TOKEN_WINDOW_SEC, RATELIMIT_TOKEN_BURST
	TokenLimit = RateLimitConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		Burst:             30,
	}
)

// ParseRateLimitFromEnv reads rate limit configuration from environment variables.
// Environment variables follow the pattern: RATELIMIT_{prefix}_{field}
// For example: RATELIMIT_TOKEN_REQUESTS, RATELIMIT_TOKEN_WINDOW_SEC, RATELIMIT_TOKEN_BURST
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (e.g., IP address, client ID, etc.)
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ClientIDKeyExtractor extracts the authenticated client id from the request
// context. Returns empty string if the request is not authenticated.
func ClientIDKeyExtractor(r *http.Request) string {
	return ClientIDFromContext(r.Context())
}

// CompositeKeyExtractor combines multiple key extractors with a separator.
// Example: CompositeKeyExtractor(":", IPKeyExtractor, ClientIDKeyExtractor)
// would produce keys like "192.168.1.1:abc123"
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// FormFieldKeyExtractor extracts a key from a form field (works for both GET and POST).
func FormFieldKeyExtractor(fieldName string) KeyExtractor {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err == nil {
			return r.FormValue(fieldName)
		}
		return ""
	}
}

// rateLimiter manages rate limiters for different keys
type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	now      func() time.Time

	mu          sync.Mutex
	lastCleanup time.Time
}

// getLimiter retrieves or creates a rate limiter for the given key
func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	actual, _ := rl.limiters.LoadOrStore(key, limiter)

	rl.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full again, i.e. keys that
// have been idle for at least a refill period.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = now

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// headers computes the values reported after a request: the bucket size,
// the whole tokens left and the unix second at which the bucket is full.
func (rl *rateLimiter) headers(l *rate.Limiter, now time.Time) (limit, remaining, reset int64) {
	tokens := l.TokensAt(now)
	remaining = max(int64(math.Floor(tokens)), 0)

	missing := float64(rl.burst) - tokens
	resetAt := now
	if missing > 0 && rl.rate > 0 {
		resetAt = now.Add(time.Duration(missing / float64(rl.rate) * float64(time.Second)))
	}
	reset = int64(math.Ceil(float64(resetAt.UnixNano()) / float64(time.Second)))
	return int64(rl.burst), remaining, reset
}

// RateLimitMiddleware creates a rate limiting middleware with the given
// configuration. Every response carries x-ratelimit-limit, -remaining and
// -reset; a request over budget gets a 429 in the Management API error
// shape. The keyExtractor determines how requests are grouped.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	return rateLimitMiddleware(config, keyExtractor, time.Now)
}

func rateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor, now func() time.Time) Middleware {
	ratePerSecond := float64(config.RequestsPerWindow) / config.Window.Seconds()

	rl := &rateLimiter{
		rate:        rate.Limit(ratePerSecond),
		burst:       max(config.Burst, 1),
		now:         now,
		lastCleanup: now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)
			t := rl.now()
			allowed := limiter.AllowN(t, 1)

			limit, remaining, reset := rl.headers(limiter, t)
			h := w.Header()
			h.Set(HeaderRateLimitLimit, strconv.FormatInt(limit, 10))
			h.Set(HeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(reset, 10))

			if !allowed {
				retryAfter := max(reset-t.Unix(), 1)
				h.Set("Retry-After", strconv.FormatInt(retryAfter, 10))

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteAPIError(w, http.StatusTooManyRequests, "Global limit has been reached", "too_many_requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP creates a rate limiter that limits by IP address only.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}

// RateLimitByClient limits by authenticated client id, falling back to IP
// for anonymous requests.
func RateLimitByClient(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		ClientIDKeyExtractor,
		IPKeyExtractor,
	))
}

// RateLimitByIPAndFormField creates a rate limiter that limits by IP + form field.
// Useful for limiting token requests by IP + client_id.
func RateLimitByIPAndFormField(config RateLimitConfig, fieldName string) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		IPKeyExtractor,
		FormFieldKeyExtractor(fieldName),
	))
}
