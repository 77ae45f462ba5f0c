package timing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
}

func TestFrameDuration(t *testing.T) {
	assert.InDelta(t, 59.7275, TargetFPS(), 0.001)
	assert.InDelta(t, 16742706, float64(FrameDuration()), 1)
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name string
		want Limiter
	}{
		{name: "", want: NoOp{}},
		{name: "none", want: NoOp{}},
		{name: "adaptive", want: &Adaptive{}},
		{name: "ticker", want: &Ticker{}},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			l, err := New(tC.name)
			require.NoError(t, err)
			assert.IsType(t, tC.want, l)
			if ticker, ok := l.(*Ticker); ok {
				ticker.Stop()
			}
		})
	}

	_, err := New("vsync")
	assert.True(t, errors.Is(err, ErrUnknownLimiter))
}

func TestAdaptive(t *testing.T) {
	t.Run("first frame does not wait", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		a := newAdaptive(clock.now, clock.sleep)

		a.WaitForNextFrame()
		assert.Empty(t, clock.sleeps)
	})

	t.Run("waits out the rest of the frame", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		a := newAdaptive(clock.now, clock.sleep)

		a.WaitForNextFrame()
		clock.t = clock.t.Add(4 * time.Millisecond)
		a.WaitForNextFrame()

		require.Len(t, clock.sleeps, 1)
		assert.Equal(t, FrameDuration()-4*time.Millisecond, clock.sleeps[0])
	})

	t.Run("small lag is paid back", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		a := newAdaptive(clock.now, clock.sleep)

		a.WaitForNextFrame()
		clock.t = clock.t.Add(FrameDuration() + 2*time.Millisecond)
		a.WaitForNextFrame()
		a.WaitForNextFrame()

		require.Len(t, clock.sleeps, 1)
		assert.Equal(t, FrameDuration()-2*time.Millisecond, clock.sleeps[0])
	})

	t.Run("large lag resyncs", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		a := newAdaptive(clock.now, clock.sleep)

		a.WaitForNextFrame()
		clock.t = clock.t.Add(time.Second)
		a.WaitForNextFrame()
		a.WaitForNextFrame()

		require.Len(t, clock.sleeps, 1)
		assert.Equal(t, FrameDuration(), clock.sleeps[0])
	})

	t.Run("measures frame rate", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		a := newAdaptive(clock.now, clock.sleep)

		assert.Zero(t, a.FPS())
		for range fpsWindow {
			a.WaitForNextFrame()
		}
		// the first frame doesn't sleep, so the window spans 59 frames
		assert.InDelta(t, TargetFPS()*fpsWindow/(fpsWindow-1), a.FPS(), 0.01)
	})

	t.Run("reset restarts the schedule", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		a := newAdaptive(clock.now, clock.sleep)

		a.WaitForNextFrame()
		a.Reset()
		a.WaitForNextFrame()
		assert.Empty(t, clock.sleeps)
	})
}

func TestFPSReporter(t *testing.T) {
	testCases := []struct {
		name string
		want bool
	}{
		{name: "adaptive", want: true},
		{name: "ticker", want: false},
		{name: "none", want: false},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			l, err := New(tC.name)
			require.NoError(t, err)
			if tk, ok := l.(*Ticker); ok {
				defer tk.Stop()
			}

			_, ok := l.(FPSReporter)
			assert.Equal(t, tC.want, ok)
		})
	}
}
