// Package terminal presents the console in a terminal with tcell, drawing
// two pixel rows per character cell with half blocks.
package terminal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	minTermWidth  = width
	minTermHeight = height / 2

	panelX   = width + 1
	logLines = 100

	// eventBuffer bounds how many terminal events may queue up between
	// two frames before new ones are dropped.
	eventBuffer = 64
)

// Terminals only report key presses, so a button counts as held until no
// repeat has arrived for keyTimeout. Slightly longer than the usual key
// repeat interval.
const keyTimeout = 100 * time.Millisecond

var shadeColors = [4]tcell.Color{
	tcell.ColorWhite,
	tcell.ColorSilver,
	tcell.ColorGray,
	tcell.ColorBlack,
}

var keyButtons = map[tcell.Key]dmg.Button{
	tcell.KeyUp:         dmg.ButtonUp,
	tcell.KeyDown:       dmg.ButtonDown,
	tcell.KeyLeft:       dmg.ButtonLeft,
	tcell.KeyRight:      dmg.ButtonRight,
	tcell.KeyEnter:      dmg.ButtonStart,
	tcell.KeyBackspace:  dmg.ButtonSelect,
	tcell.KeyBackspace2: dmg.ButtonSelect,
}

var keyActions = map[tcell.Key]backend.Action{
	tcell.KeyEscape: backend.ActionQuit,
	tcell.KeyCtrlC:  backend.ActionQuit,
	tcell.KeyF12:    backend.ActionSnapshot,
}

var runeActions = map[rune]backend.Action{
	'q': backend.ActionQuit,
	'p': backend.ActionPause,
	'n': backend.ActionStep,
}

var runeButtons = map[rune]dmg.Button{
	'w': dmg.ButtonUp,
	's': dmg.ButtonDown,
	'a': dmg.ButtonLeft,
	'd': dmg.ButtonRight,
	'z': dmg.ButtonA,
	'x': dmg.ButtonB,
	' ': dmg.ButtonSelect,
}

// Backend implements backend.Backend using tcell for terminal rendering.
type Backend struct {
	screen     tcell.Screen
	config     backend.Config
	events     chan tcell.Event
	logs       *LogBuffer
	prevLogger *slog.Logger

	keyStates map[dmg.Button]time.Time // last press (or repeat) of each key
	active    map[dmg.Button]bool      // buttons reported held last frame
	queued    []backend.InputEvent
	paused    bool // mirrors the pause state of the host loop

	now func() time.Time
}

var _ backend.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{now: time.Now}
}

func newWithScreen(screen tcell.Screen, now func() time.Time) *Backend {
	return &Backend{screen: screen, now: now}
}

func (t *Backend) Init(config backend.Config) error {
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating terminal screen: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	t.config = config
	t.events = make(chan tcell.Event, eventBuffer)
	t.keyStates = make(map[dmg.Button]time.Time)
	t.active = make(map[dmg.Button]bool)

	// logs go to the side panel while the screen is owned by tcell
	t.logs = NewLogBuffer(logLines)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(NewLogBufferHandler(t.logs, config.LogLevel)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go pollInput(t.screen, t.events)

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

// pollInput forwards screen events to the emulation loop until the screen
// is finalized. Events are dropped while the channel is full.
func pollInput(screen tcell.Screen, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		default:
		}
	}
}

// Update renders a frame and returns the input gathered since the last call.
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := t.now()
	t.drainEvents(now)

	events := t.queued
	t.queued = nil

	current := make(map[dmg.Button]bool, len(t.keyStates))
	for button, last := range t.keyStates {
		if now.Sub(last) >= keyTimeout {
			delete(t.keyStates, button)
			continue
		}
		current[button] = true
		if !t.active[button] {
			slog.Debug("Key press", "button", button)
			events = append(events, backend.ButtonEvent(button, true))
		}
	}
	for button := range t.active {
		if !current[button] {
			slog.Debug("Key release", "button", button)
			events = append(events, backend.ButtonEvent(button, false))
		}
	}
	t.active = current

	t.render(frame)
	t.screen.Show()

	return events, nil
}

func (t *Backend) drainEvents(now time.Time) {
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				t.handleKey(ev, now)
			case *tcell.EventResize:
				t.screen.Sync()
			}
		default:
			return
		}
	}
}

func (t *Backend) handleKey(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyTab {
		t.config.ShowDebug = !t.config.ShowDebug
		return
	}

	var r rune
	if ev.Key() == tcell.KeyRune {
		r = unicode.ToLower(ev.Rune())
	}

	act, ok := keyActions[ev.Key()]
	if !ok && r != 0 {
		act, ok = runeActions[r]
	}
	if ok {
		t.queueAction(act)
		return
	}

	button, ok := keyButtons[ev.Key()]
	if !ok && r != 0 {
		button, ok = runeButtons[r]
	}
	if !ok {
		return
	}

	// d-pad directions are exclusive
	if isDPad(button) {
		for _, b := range []dmg.Button{dmg.ButtonUp, dmg.ButtonDown, dmg.ButtonLeft, dmg.ButtonRight} {
			delete(t.keyStates, b)
		}
	}
	t.keyStates[button] = now
}

func (t *Backend) queueAction(act backend.Action) {
	switch act {
	case backend.ActionPause:
		t.paused = !t.paused
	case backend.ActionStep:
		t.paused = true
	}
	t.queued = append(t.queued, backend.ActionEvent(act))
}

func isDPad(b dmg.Button) bool {
	return b == dmg.ButtonUp || b == dmg.ButtonDown || b == dmg.ButtonLeft || b == dmg.ButtonRight
}

func (t *Backend) Cleanup() error {
	if t.screen == nil {
		return nil
	}
	slog.Info("Cleaning up terminal backend")
	t.screen.Fini()
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
	}
	return nil
}

func (t *Backend) render(frame *video.FrameBuffer) {
	t.screen.Clear()

	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	t.drawFrame(frame)

	panelWidth := termWidth - panelX
	y := 0
	t.drawText(panelX, y, panelWidth, t.config.Title, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	if t.paused {
		t.drawText(panelX, y+1, panelWidth, "PAUSED (p: resume, n: step)", tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	y += 2

	if t.config.ShowDebug && (t.config.DebugText != nil || t.config.FPS != nil) {
		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		if t.config.FPS != nil {
			t.drawText(panelX, y, panelWidth, fmt.Sprintf("FPS: %.1f", t.config.FPS()), style)
			y++
		}
		var lines []string
		if t.config.DebugText != nil {
			lines = t.config.DebugText()
		}
		for _, line := range lines {
			t.drawText(panelX, y, panelWidth, line, style)
			y++
		}
		y++
	}

	t.drawLogs(panelX, y, panelWidth, termHeight)
}

// drawFrame draws the frame with one upper half block per two pixel rows:
// the foreground is the top pixel and the background the bottom one.
func (t *Backend) drawFrame(frame *video.FrameBuffer) {
	for y := uint(0); y < height; y += 2 {
		for x := uint(0); x < width; x++ {
			top := shadeColors[video.Shade(frame.GetPixel(x, y))]
			bottom := shadeColors[video.Shade(frame.GetPixel(x, y+1))]
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(int(x), int(y/2), '▀', nil, style)
		}
	}
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	text = strings.ReplaceAll(text, "\t", "  ")
	i := 0
	for _, ch := range text {
		if i >= maxWidth {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}

// drawLogs draws as many recent log lines as fit, oldest at the top.
func (t *Backend) drawLogs(x, y, maxWidth, termHeight int) {
	rows := termHeight - y
	if maxWidth <= 0 || rows <= 0 {
		return
	}

	entries := t.logs.GetRecent(rows)
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		switch {
		case entry.Level >= slog.LevelError:
			style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		case entry.Level >= slog.LevelWarn:
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		case entry.Level < slog.LevelInfo:
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		}

		t.drawText(x, y, maxWidth, FormatLogEntry(entry), style)
		y++
	}
}
