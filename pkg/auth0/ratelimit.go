package auth0

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Rate limit headers sent by the Management API on every response.
const (
	HeaderRateLimitLimit     = "x-ratelimit-limit"
	HeaderRateLimitRemaining = "x-ratelimit-remaining"
	HeaderRateLimitReset     = "x-ratelimit-reset"
)

// waitPoll is how long Wait sleeps when the reset instant is already behind
// us but the budget is still empty.
const waitPoll = 50 * time.Millisecond

// RateLimitState is a snapshot of what the server last reported.
type RateLimitState struct {
	Limit     uint64
	Remaining uint64
	ResetAt   time.Time

	// Known is false until a response with readable headers has been seen.
	Known bool
}

// RateLimiter tracks the server-reported request budget. It never blocks a
// request on its own; CheckLimit and Wait are advisory and Client only
// consults them when configured to.
type RateLimiter struct {
	clock Clock

	mu     sync.Mutex
	state  RateLimitState
	window time.Duration
	err    error
}

// NewRateLimiter returns a limiter in the unknown state. A nil clock means
// the system clock.
func NewRateLimiter(clock Clock) *RateLimiter {
	if clock == nil {
		clock = systemClock{}
	}
	return &RateLimiter{clock: clock}
}

// Read updates the state from response headers. All three headers must parse
// for the state to change; otherwise the first failing header is reported in
// limit, remaining, reset order and the previous state is kept.
func (l *RateLimiter) Read(h http.Header) error {
	limit, err := parseRateHeader(h, HeaderRateLimitLimit, ErrMissingRateLimitHeader)
	var remaining, reset uint64
	if err == nil {
		remaining, err = parseRateHeader(h, HeaderRateLimitRemaining, ErrMissingRateRemainingHeader)
	}
	if err == nil {
		reset, err = parseRateHeader(h, HeaderRateLimitReset, ErrMissingRateResetHeader)
	}
	if err == nil && reset > math.MaxInt64 {
		err = &RateLimitError{
			Kind:   ErrBadHeaderFormat,
			Header: HeaderRateLimitReset,
			Value:  h.Get(HeaderRateLimitReset),
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.err = err
		return err
	}

	now := l.clock.Now()
	resetAt := time.Unix(int64(reset), 0)
	l.state = RateLimitState{
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		Known:     true,
	}
	l.window = max(resetAt.Sub(now), time.Second)
	l.err = nil
	return nil
}

// CheckLimit consumes one unit of the local budget and reports whether a
// request should go ahead. With no state yet it allows without counting.
// Once the reset instant has passed the budget is refilled to the limit and
// the next reset is projected one observed window ahead.
func (l *RateLimiter) CheckLimit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.Known {
		return true
	}

	now := l.clock.Now()
	if !now.Before(l.state.ResetAt) {
		l.state.Remaining = l.state.Limit
		l.state.ResetAt = now.Add(l.window)
	}

	if l.state.Remaining == 0 {
		return false
	}
	l.state.Remaining--
	return true
}

// Wait blocks until CheckLimit allows a request or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		if l.CheckLimit() {
			return nil
		}

		d := l.RetryAfter()
		if d <= 0 {
			d = waitPoll
		}

		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// RetryAfter is how long until the budget refills, or zero when a request
// would be allowed now.
func (l *RateLimiter) RetryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.Known || l.state.Remaining > 0 {
		return 0
	}
	return max(l.state.ResetAt.Sub(l.clock.Now()), 0)
}

// State returns a copy of the current state.
func (l *RateLimiter) State() RateLimitState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error from the most recent Read, or nil if it succeeded.
func (l *RateLimiter) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func parseRateHeader(h http.Header, name string, missing error) (uint64, error) {
	vals := h.Values(name)
	if len(vals) == 0 {
		return 0, &RateLimitError{Kind: missing, Header: name}
	}

	v := vals[0]
	for i := 0; i < len(v); i++ {
		if c := v[i]; (c < 0x20 && c != '\t') || c >= 0x7f {
			return 0, &RateLimitError{Kind: ErrBadHeaderEncoding, Header: name, Value: v}
		}
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, &RateLimitError{Kind: ErrBadHeaderFormat, Header: name, Value: v, Err: err}
	}
	return n, nil
}
