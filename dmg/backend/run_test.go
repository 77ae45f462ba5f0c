package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/timing"
	"github.com/valerio/go-dmgcore/dmg/video"
)

type fakeEmulator struct {
	frames  int
	failAt  int
	buttons []InputEvent
	frame   *video.FrameBuffer
}

var errFault = errors.New("fault")

func (e *fakeEmulator) RunUntilFrame() error {
	e.frames++
	if e.failAt > 0 && e.frames == e.failAt {
		return errFault
	}
	return nil
}

func (e *fakeEmulator) FrameReady() *video.FrameBuffer { return e.frame }

func (e *fakeEmulator) DebugText() []string {
	return []string{"PC: 0150", "LY: 0"}
}

func (e *fakeEmulator) SetButton(button dmg.Button, pressed bool) {
	e.buttons = append(e.buttons, ButtonEvent(button, pressed))
}

// scriptedBackend returns the events in script, one entry per Update.
type scriptedBackend struct {
	script  [][]InputEvent
	updates int
	err     error
	onFrame func(n int)
}

func (b *scriptedBackend) Init(Config) error { return nil }
func (b *scriptedBackend) Cleanup() error    { return nil }

func (b *scriptedBackend) Update(*video.FrameBuffer) ([]InputEvent, error) {
	b.updates++
	if b.onFrame != nil {
		b.onFrame(b.updates)
	}
	if b.err != nil {
		return nil, b.err
	}
	if b.updates <= len(b.script) {
		return b.script[b.updates-1], nil
	}
	return nil, nil
}

func TestRun(t *testing.T) {
	t.Run("quits on request", func(t *testing.T) {
		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{script: [][]InputEvent{
			{ButtonEvent(dmg.ButtonA, true)},
			{ButtonEvent(dmg.ButtonA, false), ButtonEvent(dmg.ButtonUp, true)},
			{Quit(), ButtonEvent(dmg.ButtonB, true)},
		}}

		err := Run(context.Background(), emu, b, timing.NoOp{})
		require.NoError(t, err)

		assert.Equal(t, 3, emu.frames)
		assert.Equal(t, []InputEvent{
			ButtonEvent(dmg.ButtonA, true),
			ButtonEvent(dmg.ButtonA, false),
			ButtonEvent(dmg.ButtonUp, true),
		}, emu.buttons)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{onFrame: func(n int) {
			if n == 5 {
				cancel()
			}
		}}

		require.NoError(t, Run(ctx, emu, b, timing.NoOp{}))
		assert.Equal(t, 5, emu.frames)
	})

	t.Run("pause holds the emulator", func(t *testing.T) {
		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{script: [][]InputEvent{
			{ActionEvent(ActionPause)},
			nil,
			nil,
			{ActionEvent(ActionPause)},
			{Quit()},
		}}

		require.NoError(t, Run(context.Background(), emu, b, timing.NoOp{}))
		assert.Equal(t, 5, b.updates)
		assert.Equal(t, 2, emu.frames, "frames 2 to 4 presented while paused")
	})

	t.Run("step runs one frame and stays paused", func(t *testing.T) {
		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{script: [][]InputEvent{
			{ActionEvent(ActionPause)},
			{ActionEvent(ActionStep)},
			nil,
			{ActionEvent(ActionStep)},
			nil,
			{Quit()},
		}}

		require.NoError(t, Run(context.Background(), emu, b, timing.NoOp{}))
		assert.Equal(t, 3, emu.frames)
	})

	t.Run("step while running pauses", func(t *testing.T) {
		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{script: [][]InputEvent{
			{ActionEvent(ActionStep)},
			nil,
			nil,
			{Quit()},
		}}

		require.NoError(t, Run(context.Background(), emu, b, timing.NoOp{}))
		assert.Equal(t, 2, emu.frames)
	})

	t.Run("snapshot writes debug text and frame", func(t *testing.T) {
		dir := t.TempDir()
		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{script: [][]InputEvent{
			{ActionEvent(ActionSnapshot)},
			{Quit()},
		}}

		require.NoError(t, Run(context.Background(), emu, b, timing.NoOp{}, WithSnapshotDir(dir)))

		files, err := filepath.Glob(filepath.Join(dir, "dmgcore_snapshot_*.txt"))
		require.NoError(t, err)
		require.Len(t, files, 1)

		data, err := os.ReadFile(files[0])
		require.NoError(t, err)
		text := string(data)
		assert.True(t, strings.HasPrefix(text, "PC: 0150\nLY: 0\n\n"))
		assert.Contains(t, text, strings.Repeat(".", video.FramebufferWidth)+"\n")
		assert.Equal(t, 2, emu.frames, "a snapshot does not stop the loop")
	})

	t.Run("snapshot failure is not fatal", func(t *testing.T) {
		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{script: [][]InputEvent{
			{ActionEvent(ActionSnapshot)},
			{Quit()},
		}}

		missing := filepath.Join(t.TempDir(), "missing", "dir")
		require.NoError(t, Run(context.Background(), emu, b, timing.NoOp{}, WithSnapshotDir(missing)))
		assert.Equal(t, 2, emu.frames)
	})

	t.Run("returns emulator faults", func(t *testing.T) {
		emu := &fakeEmulator{frame: video.NewFrameBuffer(), failAt: 2}
		b := &scriptedBackend{}

		err := Run(context.Background(), emu, b, timing.NoOp{})
		assert.True(t, errors.Is(err, errFault))
		assert.Equal(t, 1, b.updates)
	})

	t.Run("returns backend errors", func(t *testing.T) {
		emu := &fakeEmulator{frame: video.NewFrameBuffer()}
		b := &scriptedBackend{err: errors.New("screen gone")}

		err := Run(context.Background(), emu, b, timing.NoOp{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "screen gone")
	})
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "quit", ActionQuit.String())
	assert.Equal(t, "button", ActionButton.String())
	assert.Equal(t, "pause", ActionPause.String())
	assert.Equal(t, "step", ActionStep.String())
	assert.Equal(t, "snapshot", ActionSnapshot.String())
	assert.Equal(t, "unknown", Action(42).String())
}
