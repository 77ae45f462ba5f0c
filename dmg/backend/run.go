package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/timing"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Emulator is the part of the console the host loop drives.
type Emulator interface {
	RunUntilFrame() error
	FrameReady() *video.FrameBuffer
	SetButton(button dmg.Button, pressed bool)
	DebugText() []string
}

var _ Emulator = (*dmg.DMG)(nil)

// RunOption configures Run.
type RunOption func(l *loop)

// WithSnapshotDir sets where snapshot actions write their files. The
// default is the working directory.
func WithSnapshotDir(dir string) RunOption {
	return func(l *loop) {
		l.snapshotDir = dir
	}
}

type loop struct {
	emu         Emulator
	paused      bool
	step        bool
	snapshotDir string
	now         func() time.Time
}

// Run drives emu one frame at a time, presenting each finished frame on b
// and pacing with limiter. While paused the last frame is presented again
// and the emulator only advances on a step. It returns nil when ctx is done
// or the backend asks to quit, and the error when the emulator faults.
func Run(ctx context.Context, emu Emulator, b Backend, limiter timing.Limiter, opts ...RunOption) error {
	l := &loop{emu: emu, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if !l.paused || l.step {
			l.step = false
			if err := emu.RunUntilFrame(); err != nil {
				return fmt.Errorf("running frame: %w", err)
			}
		}

		events, err := b.Update(emu.FrameReady())
		if err != nil {
			return fmt.Errorf("updating backend: %w", err)
		}

		for _, ev := range events {
			if ev.Action == ActionQuit {
				return nil
			}
			l.handle(ev)
		}

		limiter.WaitForNextFrame()
	}
}

func (l *loop) handle(ev InputEvent) {
	switch ev.Action {
	case ActionButton:
		l.emu.SetButton(ev.Button, ev.Pressed)
	case ActionPause:
		l.paused = !l.paused
		slog.Info("Emulation paused", "paused", l.paused)
	case ActionStep:
		l.paused = true
		l.step = true
	case ActionSnapshot:
		p, err := WriteSnapshot(l.snapshotDir, l.emu.DebugText(), l.emu.FrameReady(), l.now())
		if err != nil {
			slog.Error("Failed to save snapshot", "error", err)
			return
		}
		slog.Info("Snapshot saved", "path", p)
	}
}
