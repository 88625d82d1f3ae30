package client

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/pkg/circuitbreaker"
)

// BreakerMetrics exposes circuit breaker state per upstream
type BreakerMetrics struct {
	open        *prometheus.GaugeVec
	transitions *prometheus.CounterVec
}

// NewBreakerMetrics creates breaker metrics and registers them with reg
func NewBreakerMetrics(reg prometheus.Registerer) *BreakerMetrics {
	m := &BreakerMetrics{
		open: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "storefront_circuit_breaker_open",
				Help: "1 while the circuit breaker for an upstream is open",
			},
			[]string{"upstream"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_circuit_breaker_transitions_total",
				Help: "Circuit breaker state transitions",
			},
			[]string{"upstream", "to"},
		),
	}
	reg.MustRegister(m.open, m.transitions)
	return m
}

// NewBreaker builds a breaker that reports its state through m. A nil m reports nothing.
func (m *BreakerMetrics) NewBreaker(name string, settings circuitbreaker.Settings) *circuitbreaker.Breaker {
	settings.IsFailure = countsAgainstUpstream
	if m != nil {
		m.open.WithLabelValues(name).Set(0)
		settings.OnStateChange = func(name string, _, to circuitbreaker.State) {
			m.transitions.WithLabelValues(name, string(to)).Inc()
			if to == circuitbreaker.StateOpen {
				m.open.WithLabelValues(name).Set(1)
			} else {
				m.open.WithLabelValues(name).Set(0)
			}
		}
	}
	return circuitbreaker.New(name, settings)
}
