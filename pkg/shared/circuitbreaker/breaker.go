// Package circuitbreaker wraps sony/gobreaker with the settings the process
// executor uses to stop hammering a provider CLI that is repeatedly failing
// authentication or timing out.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

// Config tunes a Breaker's trip and recovery behavior.
type Config struct {
	Name             string
	MaxFailures      uint32
	Interval         time.Duration
	Timeout          time.Duration
	HalfOpenRequests uint32
}

// DefaultConfig trips after 5 consecutive failures within a 60s window and
// probes again after 30s in the open state.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxFailures:      5,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// Breaker wraps gobreaker.CircuitBreaker with an Execute signature that
// matches the executor's fallible child-process calls.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New constructs a Breaker that trips once cfg.MaxFailures consecutive
// calls fail.
func New(cfg Config) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn through the breaker. When the breaker is open, fn is not
// called and gobreaker.ErrOpenState is returned.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	return b.cb.Execute(fn)
}

// State reports the breaker's current state for health/metrics reporting.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
