// Package video implements the picture processing unit: VRAM, OAM, the LCD
// registers, the per-scanline mode machine and the renderer.
package video

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
	"github.com/valerio/go-dmgcore/dmg/interrupt"
)

// Mode is the PPU state reported in the two low bits of STAT.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	PixelTransfer
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OAMScan:
		return "OAMScan"
	case PixelTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

const (
	oamScanCycles  = 80
	transferCycles = 172
	hblankCycles   = 204
	scanlineCycles = oamScanCycles + transferCycles + hblankCycles

	visibleLines = 144
	totalLines   = 154

	// FrameCycles is the length of a full frame, VBlank included.
	FrameCycles = scanlineCycles * totalLines

	vramSize = 0x2000
)

// LCDC (LCD Control) register bits.
const (
	lcdDisplayEnable       uint8 = 7
	windowTileMapSelect    uint8 = 6
	windowDisplayEnable    uint8 = 5
	bgWindowTileDataSelect uint8 = 4
	bgTileMapDisplaySelect uint8 = 3
	spriteSize             uint8 = 2
	spriteDisplayEnable    uint8 = 1
	bgDisplay              uint8 = 0
)

// STAT interrupt source bits.
const (
	statHBlankIRQ   uint8 = 3
	statVBlankIRQ   uint8 = 4
	statOAMIRQ      uint8 = 5
	statLYCIRQ      uint8 = 6
	statCoincidence uint8 = 2
	statWritable    uint8 = 0x78
)

// PPU owns video memory and the LCD registers and draws one scanline at the
// end of each pixel transfer.
type PPU struct {
	vram [vramSize]byte
	oam  [oamSize]byte

	lcdc byte
	stat byte // interrupt enables only, bits 3-6
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	bgp  byte
	obp0 byte
	obp1 byte
	wy   byte
	wx   byte

	mode        Mode
	clock       int
	coincidence bool
	windowLine  int

	back       *FrameBuffer // in progress
	front      *FrameBuffer // last completed frame
	frameCount uint64

	bgIndex     [FramebufferWidth]uint8
	lineSprites [maxSpritesPerLine]Sprite

	irq interrupt.Requester
}

// New returns a PPU with the LCD switched off. VBlank and STAT requests are
// delivered to irq.
func New(irq interrupt.Requester) *PPU {
	return &PPU{
		back:  NewFrameBuffer(),
		front: NewFrameBuffer(),
		mode:  HBlank,
		irq:   irq,
	}
}

func (p *PPU) lcdEnabled() bool {
	return bit.IsSet(lcdDisplayEnable, p.lcdc)
}

func (p *PPU) spriteHeight() int {
	if bit.IsSet(spriteSize, p.lcdc) {
		return 16
	}
	return 8
}

func (p *PPU) request(i addr.Interrupt) {
	if p.irq != nil {
		p.irq.Request(i)
	}
}

// Tick advances the mode machine by the given number of cycles. Leftover
// cycles carry into the next mode so a frame always lasts FrameCycles.
func (p *PPU) Tick(cycles int) {
	if !p.lcdEnabled() {
		return
	}

	p.clock += cycles
	for {
		switch p.mode {
		case OAMScan:
			if p.clock < oamScanCycles {
				return
			}
			p.clock -= oamScanCycles
			p.setMode(PixelTransfer)

		case PixelTransfer:
			if p.clock < transferCycles {
				return
			}
			p.clock -= transferCycles
			p.renderScanline()
			p.setMode(HBlank)

		case HBlank:
			if p.clock < hblankCycles {
				return
			}
			p.clock -= hblankCycles
			p.setLine(p.ly + 1)
			if p.ly == visibleLines {
				p.enterVBlank()
			} else {
				p.setMode(OAMScan)
			}

		case VBlank:
			if p.clock < scanlineCycles {
				return
			}
			p.clock -= scanlineCycles
			if p.ly+1 >= totalLines {
				p.windowLine = 0
				p.setLine(0)
				p.setMode(OAMScan)
			} else {
				p.setLine(p.ly + 1)
			}
		}
	}
}

func (p *PPU) enterVBlank() {
	p.back, p.front = p.front, p.back
	p.frameCount++
	p.request(addr.VBlankInterrupt)
	p.setMode(VBlank)
}

// setMode switches mode and raises STAT when the matching source is enabled.
func (p *PPU) setMode(mode Mode) {
	p.mode = mode

	var source uint8
	switch mode {
	case HBlank:
		source = statHBlankIRQ
	case VBlank:
		source = statVBlankIRQ
	case OAMScan:
		source = statOAMIRQ
	default:
		return
	}

	if bit.IsSet(source, p.stat) {
		p.request(addr.LCDSTATInterrupt)
	}
}

func (p *PPU) setLine(line byte) {
	p.ly = line
	p.compareLYC()
}

// compareLYC refreshes the coincidence flag and raises STAT on a new match.
func (p *PPU) compareLYC() {
	match := p.ly == p.lyc
	if match && !p.coincidence && bit.IsSet(statLYCIRQ, p.stat) {
		p.request(addr.LCDSTATInterrupt)
	}
	p.coincidence = match
}

func (p *PPU) setLCDC(value byte) {
	wasOn := p.lcdEnabled()
	p.lcdc = value
	isOn := p.lcdEnabled()

	switch {
	case wasOn && !isOn:
		p.ly = 0
		p.clock = 0
		p.windowLine = 0
		p.mode = HBlank
		p.compareLYC()
	case !wasOn && isOn:
		p.ly = 0
		p.clock = 0
		p.windowLine = 0
		p.mode = OAMScan
		p.compareLYC()
	}
}

// vramBlocked and oamBlocked model the CPU being locked out of video memory
// while the PPU reads it. Nothing is blocked with the LCD off.
func (p *PPU) vramBlocked() bool {
	return p.lcdEnabled() && p.mode == PixelTransfer
}

func (p *PPU) oamBlocked() bool {
	return p.lcdEnabled() && (p.mode == OAMScan || p.mode == PixelTransfer)
}

// Read returns a byte of VRAM, OAM or an LCD register as seen by the CPU.
// Blocked video memory reads as 0xFF.
func (p *PPU) Read(address uint16) byte {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		if p.vramBlocked() {
			return 0xFF
		}
		return p.vram[address-addr.VRAMStart]
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		if p.oamBlocked() {
			return 0xFF
		}
		return p.oam[address-addr.OAMStart]
	}

	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		stat := 0x80 | p.stat | byte(p.mode)
		if p.coincidence {
			stat = bit.Set(statCoincidence, stat)
		}
		return stat
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	}
	return 0
}

// Write stores a byte of VRAM, OAM or an LCD register. Writes to blocked video
// memory are dropped.
func (p *PPU) Write(address uint16, value byte) {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		if !p.vramBlocked() {
			p.vram[address-addr.VRAMStart] = value
		}
		return
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		if !p.oamBlocked() {
			p.oam[address-addr.OAMStart] = value
		}
		return
	}

	switch address {
	case addr.LCDC:
		p.setLCDC(value)
	case addr.STAT:
		p.stat = value & statWritable
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		p.ly = 0
		p.compareLYC()
	case addr.LYC:
		p.lyc = value
		p.compareLYC()
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}

// WriteOAM stores a byte at an OAM offset (0-159) without contention. Used by
// OAM DMA.
func (p *PPU) WriteOAM(offset int, value byte) {
	if offset >= 0 && offset < oamSize {
		p.oam[offset] = value
	}
}

// FrameReady returns the last completed frame.
func (p *PPU) FrameReady() *FrameBuffer {
	return p.front
}

// FrameCount returns how many times the PPU has entered VBlank.
func (p *PPU) FrameCount() uint64 {
	return p.frameCount
}

func (p *PPU) Mode() Mode {
	return p.mode
}

func (p *PPU) LY() uint8 {
	return p.ly
}

func (p *PPU) SCX() uint8 {
	return p.scx
}

func (p *PPU) SCY() uint8 {
	return p.scy
}
