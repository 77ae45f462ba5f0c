// Package memory implements the DMG address space: cartridge banking, work
// and high RAM, the boot ROM overlay, joypad and the I/O register fan-out to
// the timer, interrupt controller and PPU.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
	"github.com/valerio/go-dmgcore/dmg/interrupt"
	"github.com/valerio/go-dmgcore/dmg/video"
)

const dmaLength = 0xA0

// MMU allows access to all memory mapped I/O and data/registers
type MMU struct {
	cart *Cartridge

	bootROM    []byte
	bootActive bool

	wram [0x2000]byte
	hram [0x7F]byte
	io   [0x80]byte // registers without a dedicated owner, kept as latches

	joypad Joypad

	Interrupts *interrupt.Controller
	Timer      *interrupt.Timer
	PPU        *video.PPU
}

// New creates a memory unit with nothing plugged in. Equivalent to turning
// on the console without a cartridge.
func New() *MMU {
	irq := interrupt.NewController()
	return &MMU{
		joypad:     newJoypad(),
		Interrupts: irq,
		Timer:      interrupt.NewTimer(irq),
		PPU:        video.New(irq),
	}
}

// LoadCartridge plugs a cartridge into the ROM and external RAM windows.
func (m *MMU) LoadCartridge(cart *Cartridge) {
	m.cart = cart
}

func (m *MMU) Cartridge() *Cartridge {
	return m.cart
}

// SetBootROM maps data over 0x0000-0x00FF until 0xFF50 is written.
func (m *MMU) SetBootROM(data []byte) {
	m.bootROM = data
	m.bootActive = len(data) > 0
}

// BootROMActive reports whether the boot ROM overlay is still mapped.
func (m *MMU) BootROMActive() bool {
	return m.bootActive
}

// Tick advances the timer and the PPU.
func (m *MMU) Tick(cycles int) {
	m.Timer.Tick(cycles)
	m.PPU.Tick(cycles)
}

// SetButton updates a joypad button and reports whether it was newly pressed.
func (m *MMU) SetButton(button Button, pressed bool) bool {
	return m.joypad.Set(button, pressed)
}

func (m *MMU) Read(address uint16) byte {
	switch {
	case address <= addr.BootROMEnd && m.bootActive && int(address) < len(m.bootROM):
		return m.bootROM[address]
	case address <= addr.ROMEnd:
		if m.cart == nil {
			return 0
		}
		return m.cart.Read(address)
	case address <= addr.VRAMEnd:
		return m.PPU.Read(address)
	case address <= addr.ExtRAMEnd:
		if m.cart == nil {
			return 0
		}
		return m.cart.Read(address)
	case address <= addr.WRAMEnd:
		return m.wram[address-addr.WRAMStart]
	case address <= addr.EchoEnd:
		return m.wram[address-addr.EchoStart]
	case address <= addr.OAMEnd:
		return m.PPU.Read(address)
	case address <= addr.UnusableEnd:
		return 0
	case address <= addr.IOEnd:
		return m.readIO(address)
	case address <= addr.HRAMEnd:
		return m.hram[address-addr.HRAMStart]
	default:
		return m.Interrupts.Read(addr.IE)
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch {
	case address <= addr.ROMEnd:
		if m.cart != nil {
			m.cart.Write(address, value)
		}
	case address <= addr.VRAMEnd:
		m.PPU.Write(address, value)
	case address <= addr.ExtRAMEnd:
		if m.cart != nil {
			m.cart.Write(address, value)
		}
	case address <= addr.WRAMEnd:
		m.wram[address-addr.WRAMStart] = value
	case address <= addr.EchoEnd:
		m.wram[address-addr.EchoStart] = value
	case address <= addr.OAMEnd:
		m.PPU.Write(address, value)
	case address <= addr.UnusableEnd:
		// ignored
	case address <= addr.IOEnd:
		m.writeIO(address, value)
	case address <= addr.HRAMEnd:
		m.hram[address-addr.HRAMStart] = value
	default:
		m.Interrupts.Write(addr.IE, value)
	}
}

func isPPURegister(address uint16) bool {
	return address >= addr.LCDC && address <= addr.WX && address != addr.DMA
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address >= addr.DIV && address <= addr.TAC:
		return m.Timer.Read(address)
	case address == addr.IF:
		return m.Interrupts.Read(address)
	case isPPURegister(address):
		return m.PPU.Read(address)
	default:
		return m.io[address-addr.IOStart]
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address >= addr.DIV && address <= addr.TAC:
		m.Timer.Write(address, value)
	case address == addr.IF:
		m.Interrupts.Write(address, value)
	case isPPURegister(address):
		m.PPU.Write(address, value)
	case address == addr.DMA:
		m.io[address-addr.IOStart] = value
		m.dma(value)
	case address == addr.BootOff:
		m.io[address-addr.IOStart] = value
		if m.bootActive {
			m.bootActive = false
			slog.Debug("boot ROM unmapped")
		}
	default:
		m.io[address-addr.IOStart] = value
	}
}

// dma copies 160 bytes from value<<8 into OAM in one go.
func (m *MMU) dma(value byte) {
	source := uint16(value) << 8
	for i := 0; i < dmaLength; i++ {
		m.PPU.WriteOAM(i, m.Read(source+uint16(i)))
	}
}

// ReadWord reads a little-endian word: low byte at address, high at address+1.
func (m *MMU) ReadWord(address uint16) uint16 {
	if address == 0xFFFF {
		slog.Debug("word read wraps around the address space", "addr", fmt.Sprintf("0x%04X", address))
	}
	low := m.Read(address)
	high := m.Read(address + 1)
	return bit.Combine(high, low)
}

// WriteWord writes a little-endian word: low byte at address, high at address+1.
func (m *MMU) WriteWord(address uint16, value uint16) {
	if address == 0xFFFF {
		slog.Debug("word write wraps around the address space", "addr", fmt.Sprintf("0x%04X", address))
	}
	m.Write(address, bit.Low(value))
	m.Write(address+1, bit.High(value))
}
