package timing

import (
	"log/slog"
	"time"
)

const (
	// maxLag is how far behind schedule the loop may fall before the
	// schedule is moved up to now.
	maxLag = 5 * time.Millisecond

	fpsWindow = 60
)

// Adaptive schedules each frame relative to the previous deadline rather
// than the previous wakeup, so oversleeping is paid back on the next frame.
type Adaptive struct {
	frame time.Duration
	next  time.Time

	frames      int64
	windowStart time.Time
	fps         float64

	now   func() time.Time
	sleep func(time.Duration)
}

func NewAdaptive() *Adaptive {
	return newAdaptive(time.Now, time.Sleep)
}

func newAdaptive(now func() time.Time, sleep func(time.Duration)) *Adaptive {
	a := &Adaptive{
		frame: FrameDuration(),
		now:   now,
		sleep: sleep,
	}
	a.Reset()
	return a
}

func (a *Adaptive) WaitForNextFrame() {
	now := a.now()

	if wait := a.next.Sub(now); wait > 0 {
		a.sleep(wait)
	} else if wait < -maxLag {
		slog.Debug("frame pacing behind schedule, resyncing", "behind_ms", (-wait).Milliseconds())
		a.next = now
	}
	a.next = a.next.Add(a.frame)

	a.frames++
	if a.frames%fpsWindow == 0 {
		t := a.now()
		if elapsed := t.Sub(a.windowStart); elapsed > 0 {
			a.fps = fpsWindow / elapsed.Seconds()
		}
		a.windowStart = t
	}
}

func (a *Adaptive) Reset() {
	now := a.now()
	a.next = now
	a.windowStart = now
	a.frames = 0
}

// FPS returns the frame rate measured over the last full window of frames,
// or 0 before the first window completes.
func (a *Adaptive) FPS() float64 {
	return a.fps
}
