package memory

import "github.com/valerio/go-dmgcore/dmg/bit"

// Button is one of the eight joypad inputs.
type Button uint8

const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

func (b Button) String() string {
	switch b {
	case ButtonRight:
		return "Right"
	case ButtonLeft:
		return "Left"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonSelect:
		return "Select"
	case ButtonStart:
		return "Start"
	default:
		return "Unknown"
	}
}

// Joypad tracks button state and the P1 group selection. State is active
// low: a cleared bit is a pressed button.
type Joypad struct {
	buttons uint8 // A, B, Select, Start in bits 0-3
	dpad    uint8 // Right, Left, Up, Down in bits 0-3
	selects uint8 // P1 bits 4-5 as last written
}

func newJoypad() Joypad {
	return Joypad{
		buttons: 0x0F,
		dpad:    0x0F,
		selects: 0x30,
	}
}

// Read builds the P1 value from the selection bits and the button state.
//
//   - bit 4 clear selects the d-pad
//   - bit 5 clear selects A, B, Select, Start
//   - both clear returns the AND of both groups
//   - neither returns 0x0F
//
// Bits 6-7 are unused and always read as 1.
func (j *Joypad) Read() uint8 {
	result := uint8(0b11000000) | j.selects

	selectDpad := !bit.IsSet(4, j.selects)
	selectButtons := !bit.IsSet(5, j.selects)

	switch {
	case selectButtons && !selectDpad:
		result |= j.buttons & 0x0F
	case selectDpad && !selectButtons:
		result |= j.dpad & 0x0F
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// Write stores the selection bits, the only writable part of P1.
func (j *Joypad) Write(value uint8) {
	j.selects = value & 0b00110000
}

// Set updates the state of a button. It reports whether the call turned a
// released button into a pressed one.
func (j *Joypad) Set(button Button, pressed bool) bool {
	group := &j.dpad
	index := uint8(button)
	if button >= ButtonA {
		group = &j.buttons
		index -= uint8(ButtonA)
	}

	wasPressed := !bit.IsSet(index, *group)
	*group = bit.SetTo(index, *group, !pressed)

	return pressed && !wasPressed
}
