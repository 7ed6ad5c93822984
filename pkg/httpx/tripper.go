package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/auth0mgmt/pkg/idx"
)

// Tripper wraps a RoundTripper. It is the client side twin of Middleware.
type Tripper func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// TripperChain is an immutable list of Trippers.
type TripperChain struct {
	trippers []Tripper
}

// NewTripperChain returns a chain whose first tripper sees a request first.
func NewTripperChain(trippers ...Tripper) TripperChain {
	return TripperChain{trippers: append([]Tripper(nil), trippers...)}
}

// Then wraps rt with the chain. A nil rt means http.DefaultTransport.
func (c TripperChain) Then(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(c.trippers) - 1; i >= 0; i-- {
		rt = c.trippers[i](rt)
	}
	return rt
}

// Append returns a new chain with trippers added after the existing ones.
func (c TripperChain) Append(trippers ...Tripper) TripperChain {
	n := make([]Tripper, 0, len(c.trippers)+len(trippers))
	n = append(n, c.trippers...)
	n = append(n, trippers...)
	return TripperChain{trippers: n}
}

// UserAgent sets the User-Agent header on requests that do not carry one.
func UserAgent(ua string) Tripper {
	return setHeader("User-Agent", func() string { return ua })
}

// RequestID stamps outgoing requests with a fresh X-Request-ID unless the
// caller already set one.
func RequestID() Tripper {
	return setHeader(HeaderRequestID, func() string { return idx.New().String() })
}

func setHeader(name string, value func() string) Tripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(name) != "" {
				return next.RoundTrip(r)
			}
			v := value()
			if v == "" {
				return next.RoundTrip(r)
			}
			// A RoundTripper must not modify the caller's request.
			r = r.Clone(r.Context())
			r.Header.Set(name, v)
			return next.RoundTrip(r)
		})
	}
}
