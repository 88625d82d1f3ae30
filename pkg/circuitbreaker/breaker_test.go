package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream exploded")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("catalog", settings)
	b.now = clock.now
	b.lastStateChange = clock.t
	return b, clock
}

func fail(ctx context.Context) error    { return errUpstream }
func succeed(ctx context.Context) error { return nil }

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(Settings{MaxFailures: 3, OpenTimeout: time.Second})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Execute(ctx, fail), errUpstream)
	}
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Execute(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(Settings{MaxFailures: 2})
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	require.NoError(t, b.Execute(ctx, succeed))
	_ = b.Execute(ctx, fail)

	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	b, clock := newTestBreaker(Settings{MaxFailures: 1, OpenTimeout: 10 * time.Second, HalfOpenSuccesses: 2})
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	require.Equal(t, StateOpen, b.State())

	clock.advance(10 * time.Second)
	require.NoError(t, b.Execute(ctx, succeed))
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(ctx, succeed))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(Settings{MaxFailures: 1, OpenTimeout: time.Second})
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	clock.advance(time.Second)
	_ = b.Execute(ctx, fail)

	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_IgnoredErrors(t *testing.T) {
	errNotFound := errors.New("not found")
	b, _ := newTestBreaker(Settings{
		MaxFailures: 1,
		IsFailure:   func(err error) bool { return !errors.Is(err, errNotFound) },
	})
	ctx := context.Background()

	assert.ErrorIs(t, b.Execute(ctx, func(context.Context) error { return errNotFound }), errNotFound)
	assert.ErrorIs(t, b.Execute(ctx, func(context.Context) error { return context.Canceled }), context.Canceled)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_OnStateChange(t *testing.T) {
	var transitions []State
	b, clock := newTestBreaker(Settings{
		MaxFailures:       1,
		OpenTimeout:       time.Second,
		HalfOpenSuccesses: 1,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "catalog", name)
			transitions = append(transitions, to)
		},
	})
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	clock.advance(time.Second)
	require.NoError(t, b.Execute(ctx, succeed))

	assert.Equal(t, []State{StateOpen, StateHalfOpen, StateClosed}, transitions)
}
