// Package timing paces a host loop to the console's frame rate.
package timing

import (
	"errors"
	"fmt"
	"time"

	"github.com/valerio/go-dmgcore/dmg/video"
)

// ErrUnknownLimiter is returned by New for a name it does not recognise.
var ErrUnknownLimiter = errors.New("unknown limiter")

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

const (
	CyclesPerFrame = video.FrameCycles
	CPUFrequency   = 4194304
)

// TargetFPS calculates the exact frame rate, about 59.73 Hz.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// New returns the limiter called name: "none", "ticker" or "adaptive".
func New(name string) (Limiter, error) {
	switch name {
	case "none", "":
		return NoOp{}, nil
	case "ticker":
		return NewTicker(), nil
	case "adaptive":
		return NewAdaptive(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLimiter, name)
	}
}

// FPSReporter is implemented by limiters that measure the frame rate.
type FPSReporter interface {
	FPS() float64
}

var _ FPSReporter = (*Adaptive)(nil)

// NoOp doesn't limit. Used by the headless runner.
type NoOp struct{}

func (NoOp) WaitForNextFrame() {}
func (NoOp) Reset()            {}
