package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testROM builds a ROM image with a valid header for the given type and
// size codes. Each byte holds its bank number, except the header.
func testROM(typeCode, romCode, ramCode byte) []byte {
	rom := bankedROM(2 << romCode)
	copy(rom[titleAddress:], "TESTROM")
	for i := titleAddress + len("TESTROM"); i < titleAddress+titleLength; i++ {
		rom[i] = 0
	}
	rom[cartridgeTypeAddress] = typeCode
	rom[romSizeAddress] = romCode
	rom[ramSizeAddress] = ramCode
	return rom
}

func TestParseHeader(t *testing.T) {
	testCases := []struct {
		desc     string
		typeCode byte
		romCode  byte
		ramCode  byte
		mbc      MBCType
		romBanks int
		ramSize  int
		battery  bool
	}{
		{desc: "ROM only", typeCode: 0x00, romCode: 0x00, ramCode: 0x00, mbc: NoMBCType, romBanks: 2},
		{desc: "ROM+RAM+BATTERY", typeCode: 0x09, romCode: 0x00, ramCode: 0x02, mbc: NoMBCType, romBanks: 2, ramSize: 0x2000, battery: true},
		{desc: "MBC1", typeCode: 0x01, romCode: 0x02, ramCode: 0x00, mbc: MBC1Type, romBanks: 8},
		{desc: "MBC1+RAM", typeCode: 0x02, romCode: 0x01, ramCode: 0x03, mbc: MBC1Type, romBanks: 4, ramSize: 0x8000},
		{desc: "MBC1+RAM+BATTERY", typeCode: 0x03, romCode: 0x05, ramCode: 0x01, mbc: MBC1Type, romBanks: 64, ramSize: 0x800, battery: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			h, err := ParseHeader(testROM(tC.typeCode, tC.romCode, tC.ramCode))
			require.NoError(t, err)

			assert.Equal(t, "TESTROM", h.Title)
			assert.Equal(t, tC.mbc, h.MBC)
			assert.Equal(t, tC.romBanks, h.ROMBanks)
			assert.Equal(t, tC.ramSize, h.RAMSize)
			assert.Equal(t, tC.battery, h.HasBattery)
		})
	}
}

func TestLoadCartridge_malformed(t *testing.T) {
	short := testROM(0x00, 0x00, 0x00)[:0x4000]

	truncated := testROM(0x01, 0x00, 0x00)
	truncated[romSizeAddress] = 0x02 // declares 8 banks, has 2

	unsupported := testROM(0x00, 0x00, 0x00)
	unsupported[cartridgeTypeAddress] = 0x13 // MBC3

	badROMSize := testROM(0x00, 0x00, 0x00)
	badROMSize[romSizeAddress] = 0x52

	badRAMSize := testROM(0x00, 0x00, 0x00)
	badRAMSize[ramSizeAddress] = 0x07

	testCases := []struct {
		desc string
		data []byte
	}{
		{desc: "empty", data: nil},
		{desc: "shorter than 32 KiB", data: short},
		{desc: "shorter than declared banks", data: truncated},
		{desc: "unsupported controller", data: unsupported},
		{desc: "invalid ROM size code", data: badROMSize},
		{desc: "invalid RAM size code", data: badRAMSize},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cart, err := LoadCartridge(tC.data)
			assert.ErrorIs(t, err, ErrMalformedCartridge)
			assert.Nil(t, cart)
		})
	}
}

func TestNewCartridge(t *testing.T) {
	t.Run("explicit header overrides the image", func(t *testing.T) {
		data := testROM(0x00, 0x01, 0x00)
		cart, err := NewCartridge(data, Header{Title: "custom", MBC: MBC1Type, ROMBanks: 4})
		require.NoError(t, err)

		cart.Write(0x2000, 3)
		assert.Equal(t, uint8(3), cart.Read(0x4000))
		assert.Equal(t, "custom", cart.Title())
	})

	t.Run("image is copied", func(t *testing.T) {
		data := testROM(0x00, 0x00, 0x00)
		cart, err := LoadCartridge(data)
		require.NoError(t, err)

		data[0x4000] = 0x77
		assert.Equal(t, uint8(1), cart.Read(0x4000))
	})

	t.Run("declared banks are checked", func(t *testing.T) {
		_, err := NewCartridge(bankedROM(2), Header{MBC: MBC1Type, ROMBanks: 4})
		assert.ErrorIs(t, err, ErrMalformedCartridge)
	})
}

func TestCleanTitle(t *testing.T) {
	testCases := []struct {
		raw  []byte
		want string
	}{
		{[]byte("TETRIS\x00\x00\x00\x00\x00"), "TETRIS"},
		{[]byte("  POKEMON RED "), "POKEMON RED"},
		{[]byte{0, 0, 0}, "(Untitled)"},
		{[]byte{'A', 0x07, 'B'}, "A?B"},
	}
	for _, tC := range testCases {
		assert.Equal(t, tC.want, cleanTitle(tC.raw))
	}
}
