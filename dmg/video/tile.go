package video

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// TileRow represents one row of a tile pattern (8 pixels).
//
// Each row is two bit planes: Low carries bit 0 of every pixel's color index
// and High carries bit 1. Bit 7 is the leftmost pixel.
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x7E): 0 1 1 1 1 1 1 0
//	            -----------------
//	Colors:      0 2 3 3 3 3 2 0
//
// A complete 8x8 tile occupies 16 bytes (8 rows × 2 bytes/row) in VRAM.
type TileRow struct {
	Low  byte
	High byte
}

// GetPixel extracts a pixel color index (0-3) from the tile row.
// pixelX should be 0-7, where 0 is the leftmost pixel.
func (t TileRow) GetPixel(pixelX int) uint8 {
	return t.pixel(uint8(7 - pixelX))
}

// GetPixelFlipped extracts a pixel color index with horizontal flip.
func (t TileRow) GetPixelFlipped(pixelX int) uint8 {
	return t.pixel(uint8(pixelX))
}

func (t TileRow) pixel(bitIndex uint8) uint8 {
	var color uint8
	if bit.IsSet(bitIndex, t.Low) {
		color |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		color |= 2
	}
	return color
}

// tileDataAddress returns the address of the first byte of a BG/window tile.
// With unsigned addressing tiles 0-255 start at 0x8000, otherwise the index
// is signed and relative to 0x9000.
func tileDataAddress(index uint8, unsigned bool) uint16 {
	if unsigned {
		return addr.TileData0 + uint16(index)*16
	}
	return uint16(int(addr.TileData2) + int(int8(index))*16)
}

// spriteTileAddress returns the address of a sprite tile, always unsigned.
func spriteTileAddress(index uint8) uint16 {
	return addr.TileData0 + uint16(index)*16
}
