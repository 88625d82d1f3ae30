package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tair/storefront/pkg/logger"
)

// ErrOpen is returned without calling the upstream while the circuit is open
var ErrOpen = errors.New("circuit breaker is open")

// State represents the state of a circuit breaker
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Settings tunes a breaker. Zero values fall back to the defaults below.
type Settings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit
	MaxFailures int
	// OpenTimeout is how long the circuit stays open before a trial call is let through
	OpenTimeout time.Duration
	// HalfOpenSuccesses closes the circuit again
	HalfOpenSuccesses int
	// IsFailure decides whether an error counts against the upstream. Nil counts every error.
	IsFailure func(error) bool
	// OnStateChange is called with the breaker lock held; it must not call back into the breaker
	OnStateChange func(name string, from, to State)
}

const (
	defaultMaxFailures       = 5
	defaultOpenTimeout       = 30 * time.Second
	defaultHalfOpenSuccesses = 3
)

// Breaker implements the circuit breaker pattern around outbound calls
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

	mu              sync.Mutex
	state           State
	failures        int
	successCount    int
	lastFailureTime time.Time
	lastStateChange time.Time
}

// New creates a closed breaker
func New(name string, settings Settings) *Breaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = defaultMaxFailures
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = defaultOpenTimeout
	}
	if settings.HalfOpenSuccesses <= 0 {
		settings.HalfOpenSuccesses = defaultHalfOpenSuccesses
	}
	return &Breaker{
		name:            name,
		settings:        settings,
		now:             time.Now,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Name returns the upstream this breaker guards
func (b *Breaker) Name() string {
	return b.name
}

// Execute runs fn unless the circuit is open and records the outcome
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.allow() {
		return fmt.Errorf("%w: %s", ErrOpen, b.name)
	}

	err := fn(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && b.countsAsFailure(err) {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.lastStateChange) >= b.settings.OpenTimeout {
		b.transition(StateHalfOpen)
		b.successCount = 0
	}
	return b.state != StateOpen
}

func (b *Breaker) countsAsFailure(err error) bool {
	// Callers giving up is not the upstream's fault.
	if errors.Is(err, context.Canceled) {
		return false
	}
	if b.settings.IsFailure == nil {
		return true
	}
	return b.settings.IsFailure(err)
}

func (b *Breaker) onFailure() {
	b.failures++
	b.lastFailureTime = b.now()

	switch {
	case b.state == StateHalfOpen:
		b.transition(StateOpen)
	case b.failures >= b.settings.MaxFailures:
		b.transition(StateOpen)
	}
}

func (b *Breaker) onSuccess() {
	switch b.state {
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.settings.HalfOpenSuccesses {
			b.failures = 0
			b.successCount = 0
			b.transition(StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.lastStateChange = b.now()

	event := logger.Logger.Info()
	if to == StateOpen {
		event = logger.Logger.Warn()
	}
	event.
		Str("circuit", b.name).
		Str("from", string(from)).
		Str("to", string(to)).
		Int("failures", b.failures).
		Msg("Circuit breaker state changed")

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns circuit breaker statistics for health endpoints
func (b *Breaker) Stats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"name":              b.name,
		"state":             b.state,
		"failures":          b.failures,
		"max_failures":      b.settings.MaxFailures,
		"last_failure_time": b.lastFailureTime,
		"last_state_change": b.lastStateChange,
	}
}
