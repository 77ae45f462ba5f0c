// Package interrupt models the interrupt request/enable registers and the
// divider/timer block that feeds them.
package interrupt

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
)

// usedBits masks the five interrupt sources in IE/IF.
const usedBits uint8 = 0x1F

// Requester is implemented by anything that can raise an interrupt. The PPU
// and the timer receive one instead of a reference to the whole bus.
type Requester interface {
	Request(interrupt addr.Interrupt)
}

// Controller holds the IE (enabled) and IF (requested) masks.
//
// Requests are set asynchronously by the PPU and the timer; the CPU checks
// Pending() before every instruction and clears the bit it services through
// Highest() and Clear().
type Controller struct {
	flags  uint8 // IF, only the low 5 bits are stored
	enable uint8 // IE, all 8 bits are stored and read back
}

// NewController returns a controller with nothing requested or enabled.
func NewController() *Controller {
	return &Controller{}
}

// Request sets the IF bit for the interrupt.
func (c *Controller) Request(interrupt addr.Interrupt) {
	c.flags |= interrupt.Mask() & usedBits
}

// Clear resets the IF bit for the interrupt, marking it serviced.
func (c *Controller) Clear(interrupt addr.Interrupt) {
	c.flags &^= interrupt.Mask()
}

// Pending returns the interrupts that are both requested and enabled.
func (c *Controller) Pending() uint8 {
	return c.enable & c.flags & usedBits
}

// Highest returns the highest priority pending interrupt (lowest bit).
// ok is false when nothing is pending.
func (c *Controller) Highest() (interrupt addr.Interrupt, ok bool) {
	pending := c.Pending()
	for i := addr.Interrupt(0); i < addr.InterruptCount; i++ {
		if pending&i.Mask() != 0 {
			return i, true
		}
	}
	return 0, false
}

// Read returns IF or IE. The upper 3 bits of IF always read as 1.
func (c *Controller) Read(address uint16) byte {
	switch address {
	case addr.IF:
		return c.flags | 0xE0
	case addr.IE:
		return c.enable
	default:
		return 0
	}
}

// Write stores IF or IE.
func (c *Controller) Write(address uint16, value byte) {
	switch address {
	case addr.IF:
		c.flags = value & usedBits
	case addr.IE:
		c.enable = value
	}
}
