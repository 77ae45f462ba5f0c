package interrupt

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// divPeriod is the number of cycles between two DIV increments (16384 Hz).
const divPeriod = 256

// tacPeriods maps TAC input clock select (bits 1–0) to the number of cycles
// between two TIMA increments.
//
//	00 -> 1024 (4096 Hz)
//	01 -> 16   (262144 Hz)
//	10 -> 64   (65536 Hz)
//	11 -> 256  (16384 Hz)
var tacPeriods = [4]int{1024, 16, 64, 256}

// Timer encapsulates the DIV/TIMA/TMA/TAC registers.
type Timer struct {
	div       byte
	divCycles int

	tima       byte
	tma        byte
	tac        byte
	timaCycles int

	irq Requester
}

// NewTimer returns a stopped timer that raises its overflow interrupt on irq.
func NewTimer(irq Requester) *Timer {
	return &Timer{irq: irq}
}

func (t *Timer) enabled() bool {
	return bit.IsSet(2, t.tac)
}

func (t *Timer) period() int {
	return tacPeriods[t.tac&0x03]
}

// Tick advances the divider and, if enabled, the timer counter by the given
// number of cycles.
func (t *Timer) Tick(cycles int) {
	t.divCycles += cycles
	for t.divCycles >= divPeriod {
		t.divCycles -= divPeriod
		t.div++
	}

	if !t.enabled() {
		return
	}

	period := t.period()
	t.timaCycles += cycles
	for t.timaCycles >= period {
		t.timaCycles -= period
		t.incrementTIMA()
	}
}

func (t *Timer) incrementTIMA() {
	t.tima++
	if t.tima != 0 {
		return
	}

	t.tima = t.tma
	if t.irq != nil {
		t.irq.Request(addr.TimerInterrupt)
	}
}

// Read returns one of the timer registers.
func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return t.div
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0
	}
}

// Write updates one of the timer registers. Any write to DIV resets it.
func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.div = 0
		t.divCycles = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		old := t.tac & 0x03
		t.tac = value & 0x07
		if old != t.tac&0x03 {
			t.timaCycles = 0
		}
	}
}
