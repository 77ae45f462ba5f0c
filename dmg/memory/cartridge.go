package memory

import (
	"errors"
	"fmt"
)

// ErrMalformedCartridge is returned when a ROM image cannot back a cartridge.
var ErrMalformedCartridge = errors.New("malformed cartridge")

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000

	minROMSize = 2 * romBankSize

	titleAddress         = 0x134
	titleLength          = 16
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
)

// MBCType identifies the memory bank controller of a cartridge.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
)

func (t MBCType) String() string {
	switch t {
	case NoMBCType:
		return "ROM"
	case MBC1Type:
		return "MBC1"
	default:
		return "unknown"
	}
}

// Header holds the cartridge metadata needed to build a controller.
type Header struct {
	Title      string
	TypeCode   uint8 // raw byte at 0x147
	MBC        MBCType
	ROMBanks   int // 16 KiB banks
	RAMSize    int // bytes
	HasBattery bool
}

// ParseHeader reads the cartridge header of a ROM image.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < minROMSize {
		return Header{}, fmt.Errorf("%w: image is %d bytes, need at least %d", ErrMalformedCartridge, len(data), minROMSize)
	}

	h := Header{
		Title:    cleanTitle(data[titleAddress : titleAddress+titleLength]),
		TypeCode: data[cartridgeTypeAddress],
	}

	switch h.TypeCode {
	case 0x00:
		h.MBC = NoMBCType
	case 0x08:
		h.MBC = NoMBCType
	case 0x09:
		h.MBC = NoMBCType
		h.HasBattery = true
	case 0x01, 0x02:
		h.MBC = MBC1Type
	case 0x03:
		h.MBC = MBC1Type
		h.HasBattery = true
	default:
		return Header{}, fmt.Errorf("%w: unsupported cartridge type 0x%02X", ErrMalformedCartridge, h.TypeCode)
	}

	romCode := data[romSizeAddress]
	if romCode > 0x08 {
		return Header{}, fmt.Errorf("%w: invalid ROM size code 0x%02X", ErrMalformedCartridge, romCode)
	}
	h.ROMBanks = 2 << romCode

	switch code := data[ramSizeAddress]; code {
	case 0x00:
		h.RAMSize = 0
	case 0x01:
		h.RAMSize = 0x800
	case 0x02:
		h.RAMSize = ramBankSize
	case 0x03:
		h.RAMSize = 4 * ramBankSize
	case 0x04:
		h.RAMSize = 16 * ramBankSize
	case 0x05:
		h.RAMSize = 8 * ramBankSize
	default:
		return Header{}, fmt.Errorf("%w: invalid RAM size code 0x%02X", ErrMalformedCartridge, code)
	}

	return h, nil
}

// Cartridge is a ROM image together with its bank controller and RAM.
type Cartridge struct {
	header Header
	mbc    MBC
}

// LoadCartridge parses the header of data and builds the matching cartridge.
func LoadCartridge(data []byte) (*Cartridge, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return NewCartridge(data, header)
}

// NewCartridge builds a cartridge from a ROM image and an explicit header.
// The image is copied.
func NewCartridge(data []byte, header Header) (*Cartridge, error) {
	if len(data) < minROMSize {
		return nil, fmt.Errorf("%w: image is %d bytes, need at least %d", ErrMalformedCartridge, len(data), minROMSize)
	}
	if declared := header.ROMBanks * romBankSize; len(data) < declared {
		return nil, fmt.Errorf("%w: image is %d bytes, header declares %d banks (%d bytes)",
			ErrMalformedCartridge, len(data), header.ROMBanks, declared)
	}

	rom := make([]byte, len(data))
	copy(rom, data)

	cart := &Cartridge{header: header}
	switch header.MBC {
	case NoMBCType:
		cart.mbc = NewNoMBC(rom, header.RAMSize)
	case MBC1Type:
		cart.mbc = NewMBC1(rom, header.RAMSize)
	default:
		return nil, fmt.Errorf("%w: unsupported controller %s", ErrMalformedCartridge, header.MBC)
	}

	return cart, nil
}

func (c *Cartridge) Header() Header {
	return c.header
}

func (c *Cartridge) Title() string {
	return c.header.Title
}

// Read reads from the ROM (0000-7FFF) or external RAM (A000-BFFF) windows.
func (c *Cartridge) Read(address uint16) byte {
	return c.mbc.Read(address)
}

// Write forwards a write to the controller: bank switching for the ROM
// window, storage for the RAM window.
func (c *Cartridge) Write(address uint16, value byte) {
	c.mbc.Write(address, value)
}
