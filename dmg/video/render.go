package video

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// paletteColor maps a 2-bit color index through a palette register.
func paletteColor(palette, index uint8) GBColor {
	return shades[(palette>>(index*2))&0x03]
}

func (p *PPU) readVRAM(address uint16) byte {
	return p.vram[address-addr.VRAMStart]
}

func (p *PPU) tileRow(tileAddress uint16, row int) TileRow {
	rowAddress := tileAddress + uint16(row*2)
	return TileRow{
		Low:  p.readVRAM(rowAddress),
		High: p.readVRAM(rowAddress + 1),
	}
}

func (p *PPU) tileMap(selectBit uint8) uint16 {
	if bit.IsSet(selectBit, p.lcdc) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// mapPixel returns the color index at (x, y) of a 256x256 tile map.
func (p *PPU) mapPixel(tileMap uint16, x, y uint8) uint8 {
	unsigned := bit.IsSet(bgWindowTileDataSelect, p.lcdc)
	index := p.readVRAM(tileMap + uint16(y/8)*32 + uint16(x/8))
	row := p.tileRow(tileDataAddress(index, unsigned), int(y%8))
	return row.GetPixel(int(x % 8))
}

// renderScanline draws the current line into the in-progress frame buffer.
func (p *PPU) renderScanline() {
	line := int(p.ly)
	if line >= visibleLines {
		return
	}

	p.renderBackground(line)
	p.renderWindow(line)
	p.renderSprites(line)
}

func (p *PPU) renderBackground(line int) {
	y := uint(line)

	if !bit.IsSet(bgDisplay, p.lcdc) {
		for x := range FramebufferWidth {
			p.bgIndex[x] = 0
			p.back.SetPixel(uint(x), y, WhiteColor)
		}
		return
	}

	tileMap := p.tileMap(bgTileMapDisplaySelect)
	mapY := p.scy + uint8(line)
	for x := range FramebufferWidth {
		mapX := p.scx + uint8(x)
		index := p.mapPixel(tileMap, mapX, mapY)
		p.bgIndex[x] = index
		p.back.SetPixel(uint(x), y, paletteColor(p.bgp, index))
	}
}

// renderWindow draws the window over the background. The window keeps its own
// line counter, advanced only on lines where it was drawn.
func (p *PPU) renderWindow(line int) {
	if !bit.IsSet(bgDisplay, p.lcdc) || !bit.IsSet(windowDisplayEnable, p.lcdc) {
		return
	}
	if line < int(p.wy) {
		return
	}

	startX := int(p.wx) - 7
	if startX >= FramebufferWidth {
		return
	}

	tileMap := p.tileMap(windowTileMapSelect)
	mapY := uint8(p.windowLine)
	for x := max(startX, 0); x < FramebufferWidth; x++ {
		index := p.mapPixel(tileMap, uint8(x-startX), mapY)
		p.bgIndex[x] = index
		p.back.SetPixel(uint(x), uint(line), paletteColor(p.bgp, index))
	}
	p.windowLine++
}

// renderSprites draws the selected sprites. For every pixel the first sprite
// in priority order with a non-transparent pixel wins; if it is flagged
// behind the background it only shows over BG color 0.
func (p *PPU) renderSprites(line int) {
	if !bit.IsSet(spriteDisplayEnable, p.lcdc) {
		return
	}

	height := p.spriteHeight()
	sprites := p.spritesForLine(line)
	if len(sprites) == 0 {
		return
	}

	var rows [maxSpritesPerLine]TileRow
	for i, s := range sprites {
		rows[i] = p.rowFor(s, line, height)
	}

	for x := range FramebufferWidth {
		for i, s := range sprites {
			col := x - s.X
			if col < 0 || col >= 8 {
				continue
			}

			var index uint8
			if s.FlipX {
				index = rows[i].GetPixelFlipped(col)
			} else {
				index = rows[i].GetPixel(col)
			}
			if index == 0 {
				continue
			}

			if !s.BehindBG || p.bgIndex[x] == 0 {
				palette := p.obp0
				if s.PaletteOBP1 {
					palette = p.obp1
				}
				p.back.SetPixel(uint(x), uint(line), paletteColor(palette, index))
			}
			break
		}
	}
}
