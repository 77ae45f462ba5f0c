package video

import (
	"sort"

	"github.com/valerio/go-dmgcore/dmg/bit"
)

const (
	spriteCount       = 40
	maxSpritesPerLine = 10
	oamSize           = spriteCount * 4
)

// Sprite represents a single object as stored in OAM, four bytes per entry.
type Sprite struct {
	Y         int // screen Y of the top row (OAM byte minus 16)
	X         int // screen X of the leftmost column (OAM byte minus 8)
	TileIndex uint8
	Flags     uint8
	OAMIndex  int

	// parsed attribute flags for convenience
	PaletteOBP1 bool // false = OBP0, true = OBP1
	FlipX       bool
	FlipY       bool
	BehindBG    bool // only drawn over BG color 0
}

func newSprite(entry []byte, index int) Sprite {
	s := Sprite{
		Y:         int(entry[0]) - 16,
		X:         int(entry[1]) - 8,
		TileIndex: entry[2],
		Flags:     entry[3],
		OAMIndex:  index,
	}
	s.PaletteOBP1 = bit.IsSet(4, s.Flags)
	s.FlipX = bit.IsSet(5, s.Flags)
	s.FlipY = bit.IsSet(6, s.Flags)
	s.BehindBG = bit.IsSet(7, s.Flags)
	return s
}

// covers reports whether the sprite has a row on the given scanline.
func (s Sprite) covers(line, height int) bool {
	return s.Y <= line && line < s.Y+height
}

// Sprite returns the decoded OAM entry at index (0-39).
func (p *PPU) Sprite(index int) Sprite {
	if index < 0 || index >= spriteCount {
		return Sprite{}
	}
	return newSprite(p.oam[index*4:index*4+4], index)
}

// spritesForLine selects the sprites drawn on a scanline.
//
// Selection walks OAM in order and keeps the first 10 sprites overlapping the
// line, regardless of X. The result is then ordered by drawing priority:
// lower X first, OAM index breaking ties. The returned slice is only valid
// until the next call.
func (p *PPU) spritesForLine(line int) []Sprite {
	height := p.spriteHeight()
	sprites := p.lineSprites[:0]

	for i := 0; i < spriteCount && len(sprites) < maxSpritesPerLine; i++ {
		s := newSprite(p.oam[i*4:i*4+4], i)
		if s.covers(line, height) {
			sprites = append(sprites, s)
		}
	}

	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].X < sprites[j].X
	})

	return sprites
}

// rowFor returns the tile data row a sprite contributes to a scanline, with
// vertical flip and 8x16 tile pairing applied.
func (p *PPU) rowFor(s Sprite, line, height int) TileRow {
	row := line - s.Y
	if s.FlipY {
		row = height - 1 - row
	}

	tile := s.TileIndex
	if height == 16 {
		tile &= 0xFE
		if row >= 8 {
			tile |= 0x01
			row -= 8
		}
	}

	return p.tileRow(spriteTileAddress(tile), row)
}
