// Package cpu implements the DMG instruction interpreter. Opcodes are
// resolved through a decode table built at init and executed by family.
package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// Bus is the memory the CPU executes from. Word accesses are little-endian.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	ReadWord(address uint16) uint16
	WriteWord(address uint16, value uint16)
}

// Interrupts is the IE/IF state the CPU polls before every instruction.
type Interrupts interface {
	Pending() uint8
	Highest() (interrupt addr.Interrupt, ok bool)
	Clear(interrupt addr.Interrupt)
}

const (
	idleCycles      = 4
	interruptCycles = 20
)

// CPU holds the register file and execution state.
type CPU struct {
	// registers
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	// metadata
	interruptsEnabled bool
	eiPending         bool // EI delay: interrupts enable after the next instruction
	currentOpcode     uint16
	currentPC         uint16
	stopped           bool
	halted            bool
	cycles            uint64

	strict bool
	warned map[uint8]bool
	fault  error

	bus Bus
	irq Interrupts
}

// New returns a CPU with every register zeroed, executing from bus and
// taking interrupts from irq.
func New(bus Bus, irq Interrupts) *CPU {
	return &CPU{
		bus:    bus,
		irq:    irq,
		warned: make(map[uint8]bool),
	}
}

// SetStrict selects the illegal opcode policy: strict faults the CPU, the
// default executes them as 4-cycle no-ops.
func (c *CPU) SetStrict(strict bool) {
	c.strict = strict
}

// ResetPostBoot loads the register values the boot ROM leaves behind and
// points PC at the cartridge entry point.
func (c *CPU) ResetPostBoot() {
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
}

// Err returns the fault that stopped execution, if any.
func (c *CPU) Err() error {
	return c.fault
}

// Wake leaves the STOP state. Called on a button press.
func (c *CPU) Wake() {
	c.stopped = false
}

// Step services a pending interrupt or executes a single instruction and
// returns the cycles it took.
func (c *CPU) Step() int {
	cycles := c.step()
	c.cycles += uint64(cycles)
	return cycles
}

func (c *CPU) step() int {
	if c.fault != nil || c.stopped {
		return idleCycles
	}

	pending := c.irq.Pending()
	if c.halted {
		if pending == 0 {
			return idleCycles
		}
		c.halted = false
	}

	if c.interruptsEnabled && pending != 0 {
		c.serviceInterrupt()
		return interruptCycles
	}

	enableAfter := c.eiPending

	c.currentPC = c.pc
	opcode := c.readImmediate()
	in := &instructions[opcode]
	c.currentOpcode = uint16(opcode)
	if in.family == famPrefix {
		cb := c.readImmediate()
		in = &cbInstructions[cb]
		c.currentOpcode = bit.Combine(0xCB, cb)
	}

	cycles := c.execute(in)

	if enableAfter && c.eiPending {
		c.eiPending = false
		c.interruptsEnabled = true
	}

	return cycles
}

// serviceInterrupt jumps to the vector of the highest priority pending
// interrupt, clearing its request and IME.
func (c *CPU) serviceInterrupt() {
	i, ok := c.irq.Highest()
	if !ok {
		return
	}

	c.irq.Clear(i)
	c.interruptsEnabled = false
	c.eiPending = false
	c.pushStack(c.pc)
	c.pc = i.Vector()
}

// illegalOpcode applies the configured policy to an unassigned opcode.
func (c *CPU) illegalOpcode() {
	opcode := uint8(c.currentOpcode)
	if c.strict {
		c.fault = &IllegalOpcodeError{Opcode: opcode, PC: c.currentPC}
		slog.Error("illegal opcode, CPU stopped", "opcode", fmt.Sprintf("0x%02X", opcode), "pc", fmt.Sprintf("0x%04X", c.currentPC))
		return
	}

	if !c.warned[opcode] {
		c.warned[opcode] = true
		slog.Warn("illegal opcode executed as NOP", "opcode", fmt.Sprintf("0x%02X", opcode), "pc", fmt.Sprintf("0x%04X", c.currentPC))
	}
}

// readImmediate returns the byte at PC and advances PC.
func (c *CPU) readImmediate() uint8 {
	n := c.bus.Read(c.pc)
	c.pc++
	return n
}

// readImmediateWord returns the little-endian word at PC and advances PC twice.
func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

// readSignedImmediate returns the byte at PC as a signed offset and advances PC.
func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) pushStack(value uint16) {
	c.sp -= 2
	c.bus.WriteWord(c.sp, value)
}

func (c *CPU) popStack() uint16 {
	value := c.bus.ReadWord(c.sp)
	c.sp += 2
	return value
}

// Interrupt state getters
func (c *CPU) GetIME() bool          { return c.interruptsEnabled }
func (c *CPU) IsHalted() bool        { return c.halted }
func (c *CPU) IsStopped() bool       { return c.stopped }
func (c *CPU) CurrentOpcode() uint16 { return c.currentOpcode }
