package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errUpstream = errors.New("upstream down")

func fail() (int, error)    { return 0, errUpstream }
func succeed() (int, error) { return 42, nil }

func TestBreakerStateTransitions(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	b := New("hass", Settings{FailureThreshold: 2, Cooldown: 10 * time.Second, Now: clock.Now})

	assert.Equal(t, StateClosed, b.State())

	_, err := Do(b, fail)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, StateClosed, b.State())

	_, err = Do(b, fail)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, StateOpen, b.State())

	_, err = Do(b, succeed)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	clock.Advance(10 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	got, err := Do(b, succeed)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	b := New("hass", Settings{FailureThreshold: 1, Cooldown: time.Second, Now: clock.Now})

	_, _ = Do(b, fail)
	require.Equal(t, StateOpen, b.State())

	clock.Advance(time.Second)
	_, err := Do(b, fail)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerHalfOpenProbeLimit(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	b := New("hass", Settings{FailureThreshold: 1, Cooldown: time.Second, HalfOpenProbes: 1, Now: clock.Now})

	_, _ = Do(b, fail)
	clock.Advance(time.Second)

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_, _ = Do(b, func() (int, error) {
			<-release
			return 1, nil
		})
		close(done)
	}()

	require.Eventually(t, func() bool { return b.Counts().Requests == 2 }, time.Second, time.Millisecond)
	_, err := Do(b, succeed)
	assert.ErrorIs(t, err, ErrTooManyRequests)

	close(release)
	<-done
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerCounts(t *testing.T) {
	b := New("hass", Settings{FailureThreshold: 10})

	_, _ = Do(b, succeed)
	_, _ = Do(b, fail)
	_, _ = Do(b, fail)

	counts := b.Counts()
	assert.Equal(t, uint32(3), counts.Requests)
	assert.Equal(t, uint32(2), counts.Failures)
	assert.Equal(t, uint32(2), counts.ConsecutiveFailures)

	_, _ = Do(b, succeed)
	assert.Equal(t, uint32(0), b.Counts().ConsecutiveFailures)
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	b := New("hass", Settings{
		FailureThreshold: 1,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	_, _ = Do(b, fail)
	assert.Equal(t, []string{"hass:closed->open"}, transitions)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
