package memory

import "github.com/valerio/go-dmgcore/dmg/addr"

// MBC represents a Memory Bank Controller interface that all MBC types must implement
type MBC interface {
	// Read reads a byte from the ROM or external RAM window
	Read(addr uint16) uint8
	// Write handles a write to the ROM or external RAM window
	Write(addr uint16, value uint8)
}

// NoMBC represents cartridges with no memory banking capabilities.
// The ROM is directly mapped to 0x0000-0x7FFF and writes there are ignored.
// Types 0x08/0x09 add up to 8 KiB of always enabled RAM.
type NoMBC struct {
	rom []uint8
	ram []uint8
}

// NewNoMBC creates a new NoMBC controller
func NewNoMBC(romData []uint8, ramSize int) *NoMBC {
	return &NoMBC{
		rom: romData,
		ram: make([]uint8, min(ramSize, ramBankSize)),
	}
}

func (m *NoMBC) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMEnd:
		return m.rom[address]
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		offset := int(address - addr.ExtRAMStart)
		if offset < len(m.ram) {
			return m.ram[offset]
		}
	}
	return 0
}

func (m *NoMBC) Write(address uint16, value uint8) {
	if address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd {
		offset := int(address - addr.ExtRAMStart)
		if offset < len(m.ram) {
			m.ram[offset] = value
		}
	}
}

// MBC1 is the first and most common MBC chip:
//   - Bank 0 always mapped to 0x0000-0x3FFF
//   - Switchable ROM bank at 0x4000-0x7FFF, 5 low bits plus 2 upper bits
//   - Optional RAM banking at 0xA000-0xBFFF, up to 4 banks of 8KB
//   - Mode 0 routes the 2-bit register to the upper ROM bits, mode 1 to the
//     RAM bank
type MBC1 struct {
	rom         []uint8
	ram         []uint8
	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	bankingMode uint8
	romBanks    int
}

// NewMBC1 creates a new MBC1 controller
func NewMBC1(romData []uint8, ramSize int) *MBC1 {
	return &MBC1{
		rom:      romData,
		ram:      make([]uint8, ramSize),
		romBank:  1,
		romBanks: len(romData) / romBankSize,
	}
}

func (m *MBC1) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMBank0End:
		return m.rom[address]
	case address <= addr.ROMEnd:
		bank := int(m.romBank) % m.romBanks
		return m.rom[bank*romBankSize+int(address-addr.ROMBankNStart)]
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if len(m.ram) == 0 {
			return 0
		}
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[m.ramOffset(address)]
	default:
		return 0
	}
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address <= addr.RAMEnableEnd:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= addr.ROMBankSelectEnd:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case address <= addr.UpperBankSelectEnd:
		if m.bankingMode == 0 {
			m.romBank = (m.romBank & 0x1F) | ((value & 0x03) << 5)
		} else {
			m.ramBank = value & 0x03
		}
	case address <= addr.ROMEnd:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		} else {
			m.ramBank = 0
		}
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if m.ramEnabled && len(m.ram) > 0 {
			m.ram[m.ramOffset(address)] = value
		}
	}
}

func (m *MBC1) ramOffset(address uint16) int {
	offset := int(m.ramBank)*ramBankSize + int(address-addr.ExtRAMStart)
	return offset % len(m.ram)
}
