package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(cfg Config) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	b := NewBreaker("test", cfg)
	b.now = clock.Now
	return b, clock
}

var errBoom = errors.New("smtp: connection refused")

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 3, Timeout: time.Minute, SuccessThreshold: 1, MaxHalfOpen: 1})

	for i := 0; i < 2; i++ {
		b.Record(errBoom)
		assert.Equal(t, StateClosed, b.State())
	}
	b.Record(errBoom)

	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 2, Timeout: time.Minute})

	b.Record(errBoom)
	b.Record(nil)
	b.Record(errBoom)

	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute, SuccessThreshold: 2, MaxHalfOpen: 1})

	b.Record(errBoom)
	require.Equal(t, StateOpen, b.State())

	clock.Advance(time.Minute)
	require.NoError(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	// only one probe in flight
	assert.ErrorIs(t, b.Allow(), ErrTooManyRequests)

	b.Record(nil)
	require.NoError(t, b.Allow())
	b.Record(nil)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute})

	b.Record(errBoom)
	clock.Advance(time.Minute)
	require.NoError(t, b.Allow())

	b.Record(errBoom)
	assert.Equal(t, StateOpen, b.State())

	clock.Advance(30 * time.Second)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_ExecuteReturnsCallError(t *testing.T) {
	b, _ := newTestBreaker(DefaultConfig())

	require.NoError(t, b.Execute(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, b.Execute(context.Background(), func(context.Context) error { return errBoom }), errBoom)
}

func TestBreaker_IsFailureClassifier(t *testing.T) {
	declined := errors.New("card declined")
	b, _ := newTestBreaker(Config{
		Threshold: 1,
		Timeout:   time.Minute,
		IsFailure: func(err error) bool { return !errors.Is(err, declined) },
	})

	b.Record(declined)
	assert.Equal(t, StateClosed, b.State())

	b.Record(errBoom)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_CancellationIsNotAFailure(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute})

	b.Record(context.Canceled)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_Reset(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Hour})
	b.Record(errBoom)
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "CLOSED", b.Stats()["state"])
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
}
