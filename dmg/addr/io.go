// Package addr names the memory-mapped registers and regions of the DMG.
package addr

// memory regions
const (
	// BootROMEnd is the last address covered by the boot ROM overlay.
	BootROMEnd uint16 = 0x00FF
	// ROMBank0End is the last address of the fixed cartridge bank.
	ROMBank0End uint16 = 0x3FFF
	// ROMBankNStart is the start of the switchable cartridge bank.
	ROMBankNStart uint16 = 0x4000
	// ROMEnd is the last cartridge ROM address.
	ROMEnd uint16 = 0x7FFF

	VRAMStart uint16 = 0x8000
	VRAMEnd   uint16 = 0x9FFF

	ExtRAMStart uint16 = 0xA000
	ExtRAMEnd   uint16 = 0xBFFF

	WRAMStart uint16 = 0xC000
	WRAMEnd   uint16 = 0xDFFF

	// EchoStart..EchoEnd mirrors WRAMStart..0xDDFF.
	EchoStart uint16 = 0xE000
	EchoEnd   uint16 = 0xFDFF

	// OAMStart is the start of OAM memory (40 sprites * 4 bytes each)
	OAMStart uint16 = 0xFE00
	// OAMEnd is the end of OAM memory
	OAMEnd uint16 = 0xFE9F

	UnusableStart uint16 = 0xFEA0
	UnusableEnd   uint16 = 0xFEFF

	IOStart uint16 = 0xFF00
	IOEnd   uint16 = 0xFF7F

	HRAMStart uint16 = 0xFF80
	HRAMEnd   uint16 = 0xFFFE
)

// cartridge controller windows
const (
	// RAMEnableEnd closes the window whose writes latch cartridge RAM enable.
	RAMEnableEnd uint16 = 0x1FFF
	// ROMBankSelectEnd closes the window holding the low ROM bank bits.
	ROMBankSelectEnd uint16 = 0x3FFF
	// UpperBankSelectEnd closes the window holding RAM bank / upper ROM bits.
	UpperBankSelectEnd uint16 = 0x5FFF
)

// gpu registers
const (
	// LCD Control register.
	LCDC uint16 = 0xFF40
	// LCDC Status register.
	STAT uint16 = 0xFF41
	// Scroll Y (SCY) register.
	SCY uint16 = 0xFF42
	// Scroll X (SCX) register.
	SCX uint16 = 0xFF43
	// LCDC Y-Coordinate register. Writing resets it.
	LY uint16 = 0xFF44
	// LY Compare register.
	LYC uint16 = 0xFF45
	// DMA Transfer and Start register.
	DMA uint16 = 0xFF46
	// BG Palette register.
	BGP uint16 = 0xFF47
	// Object Palette 0 register.
	OBP0 uint16 = 0xFF48
	// Object Palette 1 register.
	OBP1 uint16 = 0xFF49
	// Window Y Position register.
	WY uint16 = 0xFF4A
	// Window X Position register.
	WX uint16 = 0xFF4B
)

// tile data and tile maps
const (
	// TileData0 is the start of unsigned tile data (tiles 0-255)
	TileData0 uint16 = 0x8000
	// TileData2 is the base of signed tile data (tiles -128 to 127)
	TileData2 uint16 = 0x9000

	// TileMap0 is background/window tile map 0
	TileMap0 uint16 = 0x9800
	// TileMap1 is background/window tile map 1
	TileMap1 uint16 = 0x9C00
)

// interrupts
const (
	// IF is the address for the Interrupt Flags register.
	IF uint16 = 0xFF0F
	// IE is the address for the Interrupt Enable register.
	IE uint16 = 0xFFFF
)

// P1 is used to read the Joypad state.
const P1 uint16 = 0xFF00

// BootOff disables the boot ROM overlay when written.
const BootOff uint16 = 0xFF50

// timers
const (
	// DIV is the divider register. Incremented 16384 times/s, writing to it resets it.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter register. Generates an interrupt when it overflows.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo register. When TIMA overflows, this data will be loaded.
	TMA uint16 = 0xFF06
	// TAC is the timer control register. Used to start/stop and control the timer clock.
	TAC uint16 = 0xFF07
)

// Interrupt is the bit index of one of the five interrupt sources, in
// priority order.
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the PPU has completed a frame.
	VBlankInterrupt Interrupt = iota
	// LCDSTATInterrupt is fired based on one of the conditions in the STAT register.
	LCDSTATInterrupt
	// TimerInterrupt is fired when the timer register (TIMA) overflows (i.e. goes from 0xFF to 0x00).
	TimerInterrupt
	// SerialInterrupt is fired when a serial transfer has completed. Never produced by this core.
	SerialInterrupt
	// JoypadInterrupt is fired when a joypad line goes low. Never produced by this core.
	JoypadInterrupt
)

// InterruptCount is the number of interrupt sources.
const InterruptCount = 5

// Mask returns the IE/IF bit for the interrupt.
func (i Interrupt) Mask() uint8 {
	return 1 << uint8(i)
}

// Vector returns the fixed service routine address: 0x40, 0x48, 0x50, 0x58, 0x60.
func (i Interrupt) Vector() uint16 {
	return 0x40 + uint16(i)*8
}

func (i Interrupt) String() string {
	switch i {
	case VBlankInterrupt:
		return "VBlank"
	case LCDSTATInterrupt:
		return "LCDSTAT"
	case TimerInterrupt:
		return "Timer"
	case SerialInterrupt:
		return "Serial"
	case JoypadInterrupt:
		return "Joypad"
	default:
		return "Unknown"
	}
}
