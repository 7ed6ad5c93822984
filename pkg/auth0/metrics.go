package auth0

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "auth0mgmt"

// metrics is nil when WithMetrics was not given; every method is a no-op on
// a nil receiver.
type metrics struct {
	tokenFetches *prometheus.CounterVec
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	limit        prometheus.Gauge
	remaining    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	return &metrics{
		tokenFetches: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "token_fetches_total",
			Help:      "Client-credentials token fetches by result.",
		}, []string{"result"})),
		requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Management API requests by method and status code.",
		}, []string{"method", "code"})),
		duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Management API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"})),
		limit: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ratelimit_limit",
			Help:      "Last x-ratelimit-limit reported by the server.",
		})),
		remaining: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ratelimit_remaining",
			Help:      "Last x-ratelimit-remaining reported by the server.",
		})),
	}
}

// register reuses an identical collector already registered by another
// client sharing reg.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) observeTokenFetch(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.tokenFetches.WithLabelValues(result).Inc()
}

func (m *metrics) observeRequest(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *metrics) observeRateLimit(s RateLimitState) {
	if m == nil || !s.Known {
		return
	}
	m.limit.Set(float64(s.Limit))
	m.remaining.Set(float64(s.Remaining))
}
