package terminal

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/video"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newSimBackend(t *testing.T, config backend.Config, w, h int) (*Backend, tcell.SimulationScreen, *fakeClock) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	clock := &fakeClock{t: time.Unix(0, 0)}

	b := newWithScreen(sim, clock.Now)
	require.NoError(t, b.Init(config))
	sim.SetSize(w, h)
	t.Cleanup(func() { _ = b.Cleanup() })

	return b, sim, clock
}

// updateUntil calls Update until the collected events satisfy done. Input
// reaches the backend through a goroutine, so it may take a few frames.
func updateUntil(t *testing.T, b *Backend, done func([]backend.InputEvent) bool) []backend.InputEvent {
	t.Helper()
	frame := video.NewFrameBuffer()

	var all []backend.InputEvent
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, err := b.Update(frame)
		require.NoError(t, err)
		all = append(all, events...)
		if done(all) {
			return all
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met, events so far: %v", all)
	return nil
}

func has(want backend.InputEvent) func([]backend.InputEvent) bool {
	return func(events []backend.InputEvent) bool {
		return slices.Contains(events, want)
	}
}

func rowText(sim tcell.SimulationScreen, y, from, n int) string {
	cells, w, _ := sim.GetContents()
	var sb strings.Builder
	for x := from; x < from+n && x < w; x++ {
		runes := cells[y*w+x].Runes
		if len(runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(runes[0])
	}
	return sb.String()
}

func TestUpdate_drawsFrame(t *testing.T) {
	b, sim, _ := newSimBackend(t, backend.Config{Title: "TETRIS"}, 240, 80)

	frame := video.NewFrameBuffer()
	frame.SetPixel(0, 0, video.BlackColor)
	frame.SetPixel(1, 1, video.DarkGreyColor)

	_, err := b.Update(frame)
	require.NoError(t, err)

	cells, w, _ := sim.GetContents()
	testCases := []struct {
		x, y   int
		fg, bg tcell.Color
	}{
		{x: 0, y: 0, fg: tcell.ColorBlack, bg: tcell.ColorWhite},
		{x: 1, y: 0, fg: tcell.ColorWhite, bg: tcell.ColorGray},
		{x: 2, y: 0, fg: tcell.ColorWhite, bg: tcell.ColorWhite},
		{x: 159, y: 71, fg: tcell.ColorWhite, bg: tcell.ColorWhite},
	}
	for _, tC := range testCases {
		cell := cells[tC.y*w+tC.x]
		require.NotEmpty(t, cell.Runes)
		assert.Equal(t, '▀', cell.Runes[0])
		fg, bg, _ := cell.Style.Decompose()
		assert.Equal(t, tC.fg, fg, "fg at %d,%d", tC.x, tC.y)
		assert.Equal(t, tC.bg, bg, "bg at %d,%d", tC.x, tC.y)
	}

	assert.Equal(t, "TETRIS", rowText(sim, 0, panelX, 6))
}

func TestUpdate_terminalTooSmall(t *testing.T) {
	b, sim, _ := newSimBackend(t, backend.Config{}, 80, 24)

	_, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)

	assert.Equal(t, "Terminal too small!", rowText(sim, 12, 0, 19))
}

func TestUpdate_debugPanel(t *testing.T) {
	config := backend.Config{
		DebugText: func() []string { return []string{"PC: 0100\tSP: FFFE"} },
	}
	b, sim, _ := newSimBackend(t, config, 240, 80)

	_, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	assert.NotEqual(t, "PC: 0100", rowText(sim, 2, panelX, 8))

	sim.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	deadline := time.Now().Add(2 * time.Second)
	for !b.config.ShowDebug && time.Now().Before(deadline) {
		_, err := b.Update(video.NewFrameBuffer())
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	require.True(t, b.config.ShowDebug)

	_, err = b.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	assert.Equal(t, "PC: 0100  SP: FFFE", rowText(sim, 2, panelX, 18))
}

func TestUpdate_buttons(t *testing.T) {
	t.Run("press then release after timeout", func(t *testing.T) {
		b, sim, clock := newSimBackend(t, backend.Config{}, 240, 80)

		sim.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
		updateUntil(t, b, has(backend.ButtonEvent(dmg.ButtonA, true)))

		clock.Advance(keyTimeout / 2)
		events, err := b.Update(video.NewFrameBuffer())
		require.NoError(t, err)
		assert.Empty(t, events, "still held")

		clock.Advance(keyTimeout)
		events, err = b.Update(video.NewFrameBuffer())
		require.NoError(t, err)
		assert.Equal(t, []backend.InputEvent{backend.ButtonEvent(dmg.ButtonA, false)}, events)
	})

	t.Run("repeats keep the button held", func(t *testing.T) {
		b, sim, clock := newSimBackend(t, backend.Config{}, 240, 80)

		sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
		updateUntil(t, b, has(backend.ButtonEvent(dmg.ButtonStart, true)))

		clock.Advance(keyTimeout * 3 / 4)
		sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
		time.Sleep(50 * time.Millisecond)
		clock.Advance(keyTimeout / 2)

		events, err := b.Update(video.NewFrameBuffer())
		require.NoError(t, err)
		assert.NotContains(t, events, backend.ButtonEvent(dmg.ButtonStart, false))
	})

	t.Run("d-pad directions are exclusive", func(t *testing.T) {
		b, sim, _ := newSimBackend(t, backend.Config{}, 240, 80)

		sim.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
		updateUntil(t, b, has(backend.ButtonEvent(dmg.ButtonUp, true)))

		sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
		events := updateUntil(t, b, has(backend.ButtonEvent(dmg.ButtonLeft, true)))
		assert.Contains(t, events, backend.ButtonEvent(dmg.ButtonUp, false))
	})

	t.Run("upper case runes map like lower case", func(t *testing.T) {
		b, sim, _ := newSimBackend(t, backend.Config{}, 240, 80)

		sim.InjectKey(tcell.KeyRune, 'X', tcell.ModShift)
		updateUntil(t, b, has(backend.ButtonEvent(dmg.ButtonB, true)))
	})
}

func TestUpdate_quit(t *testing.T) {
	testCases := []struct {
		desc string
		key  tcell.Key
		r    rune
	}{
		{desc: "escape", key: tcell.KeyEscape},
		{desc: "ctrl-c", key: tcell.KeyCtrlC},
		{desc: "q", key: tcell.KeyRune, r: 'q'},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			b, sim, _ := newSimBackend(t, backend.Config{}, 240, 80)

			sim.InjectKey(tC.key, tC.r, tcell.ModNone)
			updateUntil(t, b, has(backend.Quit()))
		})
	}
}

func TestUpdate_hostActions(t *testing.T) {
	testCases := []struct {
		desc string
		key  tcell.Key
		r    rune
		want backend.Action
	}{
		{desc: "p pauses", key: tcell.KeyRune, r: 'p', want: backend.ActionPause},
		{desc: "n steps", key: tcell.KeyRune, r: 'n', want: backend.ActionStep},
		{desc: "F12 snapshots", key: tcell.KeyF12, want: backend.ActionSnapshot},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			b, sim, _ := newSimBackend(t, backend.Config{}, 240, 80)

			sim.InjectKey(tC.key, tC.r, tcell.ModNone)
			updateUntil(t, b, has(backend.ActionEvent(tC.want)))
		})
	}
}

func TestUpdate_pauseIndicator(t *testing.T) {
	b, sim, _ := newSimBackend(t, backend.Config{Title: "TETRIS"}, 240, 80)

	sim.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	updateUntil(t, b, has(backend.ActionEvent(backend.ActionPause)))

	_, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	assert.Equal(t, "PAUSED", rowText(sim, 1, panelX, 6))

	sim.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	updateUntil(t, b, has(backend.ActionEvent(backend.ActionPause)))

	_, err = b.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	assert.Equal(t, "      ", rowText(sim, 1, panelX, 6))
}

func TestUpdate_fpsLine(t *testing.T) {
	config := backend.Config{
		ShowDebug: true,
		FPS:       func() float64 { return 59.73 },
		DebugText: func() []string { return []string{"LY: 0"} },
	}
	b, sim, _ := newSimBackend(t, config, 240, 80)

	_, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	assert.Equal(t, "FPS: 59.7", rowText(sim, 2, panelX, 9))
	assert.Equal(t, "LY: 0", rowText(sim, 3, panelX, 5))
}
