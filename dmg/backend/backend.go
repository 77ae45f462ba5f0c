// Package backend defines how hosts present frames and feed input to the
// console, and the loop that drives them.
package backend

import (
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Backend represents a complete emulator platform (rendering + input).
// Backends are responsible for:
//   - Rendering frames to their specific output (terminal, files, ...)
//   - Translating platform-specific input events to InputEvents
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update renders the frame and returns the input collected since the
	// previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends.
type Config struct {
	Title     string
	ShowDebug bool
	LogLevel  slog.Level

	// DebugText supplies the lines shown in the debug panel. Backends may
	// ignore it.
	DebugText func() []string

	// FPS reports the measured frame rate, nil when the limiter does not
	// measure one.
	FPS func() float64
}

// Action is what an InputEvent asks the host loop to do.
type Action uint8

const (
	ActionNone Action = iota
	ActionButton
	ActionQuit
	ActionPause    // toggle pause
	ActionStep     // pause and run a single frame
	ActionSnapshot // dump debug text and frame to a file
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionButton:
		return "button"
	case ActionQuit:
		return "quit"
	case ActionPause:
		return "pause"
	case ActionStep:
		return "step"
	case ActionSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// InputEvent is a single input from a backend. Button and Pressed are only
// meaningful for ActionButton.
type InputEvent struct {
	Action  Action
	Button  dmg.Button
	Pressed bool
}

// Quit returns an event that stops the host loop.
func Quit() InputEvent {
	return InputEvent{Action: ActionQuit}
}

// ActionEvent returns an event carrying only an action.
func ActionEvent(action Action) InputEvent {
	return InputEvent{Action: action}
}

// ButtonEvent returns a press or release of button.
func ButtonEvent(button dmg.Button, pressed bool) InputEvent {
	return InputEvent{Action: ActionButton, Button: button, Pressed: pressed}
}
