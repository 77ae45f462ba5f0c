// Package dmg ties the CPU, memory bus, timer and PPU together behind the
// surface a host needs: load a ROM, step or run a frame, feed buttons and
// read back the finished frame.
package dmg

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/cpu"
	"github.com/valerio/go-dmgcore/dmg/memory"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Button is a joypad input, see SetButton.
type Button = memory.Button

const (
	ButtonRight  = memory.ButtonRight
	ButtonLeft   = memory.ButtonLeft
	ButtonUp     = memory.ButtonUp
	ButtonDown   = memory.ButtonDown
	ButtonA      = memory.ButtonA
	ButtonB      = memory.ButtonB
	ButtonSelect = memory.ButtonSelect
	ButtonStart  = memory.ButtonStart
)

// DMG is a complete console: CPU, bus and the hardware hanging off it.
type DMG struct {
	cpu *cpu.CPU
	mem *memory.MMU

	bootROM []byte
	strict  bool

	instructions uint64
	lastCycles   int
	frameCycles  int
}

// New returns a powered-on console with no cartridge and zeroed registers.
func New(opts ...Option) *DMG {
	d := &DMG{}
	for _, opt := range opts {
		opt(d)
	}
	d.reset()
	return d
}

func (d *DMG) reset() {
	d.mem = memory.New()
	d.cpu = cpu.New(d.mem, d.mem.Interrupts)
	d.cpu.SetStrict(d.strict)
	d.mem.SetBootROM(d.bootROM)

	d.instructions = 0
	d.lastCycles = 0
	d.frameCycles = 0
}

// LoadROM parses a cartridge image and powers the console on with it.
func (d *DMG) LoadROM(data []byte) error {
	cart, err := memory.LoadCartridge(data)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	d.LoadCartridge(cart)
	return nil
}

// LoadCartridge powers the console on with cart inserted. Without a boot ROM
// the registers and I/O are set to the values the boot ROM leaves behind and
// execution starts at the cartridge entry point.
func (d *DMG) LoadCartridge(cart *memory.Cartridge) {
	d.reset()
	d.mem.LoadCartridge(cart)

	if !d.mem.BootROMActive() {
		d.cpu.ResetPostBoot()
		initializeIO(d.mem)
	}

	h := cart.Header()
	slog.Info("cartridge loaded",
		"title", h.Title,
		"mbc", h.MBC.String(),
		"rom_banks", h.ROMBanks,
		"ram_bytes", h.RAMSize,
		"boot_rom", d.mem.BootROMActive(),
	)
}

// initializeIO writes the I/O register values found after the boot ROM has
// handed over control.
func initializeIO(mem *memory.MMU) {
	mem.Write(addr.P1, 0xCF)
	mem.Write(addr.TIMA, 0x00)
	mem.Write(addr.TMA, 0x00)
	mem.Write(addr.TAC, 0x00)
	mem.Write(addr.LCDC, 0x91)
	mem.Write(addr.SCY, 0x00)
	mem.Write(addr.SCX, 0x00)
	mem.Write(addr.LYC, 0x00)
	mem.Write(addr.BGP, 0xFC)
	mem.Write(addr.OBP0, 0xFF)
	mem.Write(addr.OBP1, 0xFF)
	mem.Write(addr.WY, 0x00)
	mem.Write(addr.WX, 0x00)
	mem.Write(addr.IE, 0x00)

	// sound registers are plain latches here
	for _, r := range []struct {
		address uint16
		value   byte
	}{
		{0xFF10, 0x80}, {0xFF11, 0xBF}, {0xFF12, 0xF3}, {0xFF14, 0xBF},
		{0xFF16, 0x3F}, {0xFF17, 0x00}, {0xFF19, 0xBF}, {0xFF1A, 0x7F},
		{0xFF1B, 0xFF}, {0xFF1C, 0x9F}, {0xFF1E, 0xBF}, {0xFF20, 0xFF},
		{0xFF21, 0x00}, {0xFF22, 0x00}, {0xFF23, 0xBF}, {0xFF24, 0x77},
		{0xFF25, 0xF3}, {0xFF26, 0xF1},
	} {
		mem.Write(r.address, r.value)
	}
}

// Step executes one instruction (or services one interrupt) and advances
// the timer and PPU by the cycles it took.
func (d *DMG) Step() int {
	cycles := d.cpu.Step()
	d.mem.Tick(cycles)

	d.instructions++
	d.lastCycles = cycles
	return cycles
}

// RunUntilFrame steps until a frame's worth of cycles has elapsed. Cycles
// past the boundary count towards the next call. It stops early and returns
// the fault if the CPU hits an illegal opcode in strict mode.
func (d *DMG) RunUntilFrame() error {
	for d.frameCycles < video.FrameCycles {
		d.frameCycles += d.Step()
		if err := d.cpu.Err(); err != nil {
			return err
		}
	}
	d.frameCycles -= video.FrameCycles
	return nil
}

// Err returns the fault that stopped the CPU, if any.
func (d *DMG) Err() error {
	return d.cpu.Err()
}

// SetButton presses or releases a button. A new press wakes the CPU from
// STOP.
func (d *DMG) SetButton(button Button, pressed bool) {
	if d.mem.SetButton(button, pressed) {
		d.cpu.Wake()
	}
}

// FrameReady returns the last completed frame.
func (d *DMG) FrameReady() *video.FrameBuffer {
	return d.mem.PPU.FrameReady()
}

// FrameCount returns the number of frames completed since power on.
func (d *DMG) FrameCount() uint64 {
	return d.mem.PPU.FrameCount()
}

// InstructionCount returns the number of Step calls since power on.
func (d *DMG) InstructionCount() uint64 {
	return d.instructions
}

// Title returns the title of the inserted cartridge, or "" without one.
func (d *DMG) Title() string {
	if cart := d.mem.Cartridge(); cart != nil {
		return cart.Title()
	}
	return ""
}
