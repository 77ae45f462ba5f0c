package video

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
)

// GBColor is an RGBA pixel value (red in the most significant byte).
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0xAAAAAAFF
	DarkGreyColor  GBColor = 0x555555FF
	BlackColor     GBColor = 0x000000FF
)

// shades maps a 2-bit palette output to its display color, lightest first.
var shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// Shade returns the 0-3 shade of a color produced by the renderer, where 0 is
// white and 3 is black. Unknown colors are reported as white.
func Shade(color uint32) int {
	for i, c := range shades {
		if uint32(c) == color {
			return i
		}
	}
	return 0
}

type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a screen-sized frame buffer filled with white.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint32, FramebufferWidth*FramebufferHeight),
	}
	fb.Clear(WhiteColor)
	return fb
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// Clear fills the whole buffer with a single color.
func (fb *FrameBuffer) Clear(color GBColor) {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(color)
	}
}

// Hash returns the xxhash64 digest of the pixel data, each pixel encoded as
// 4 little-endian bytes. Two frames with the same pixels hash the same.
func (fb *FrameBuffer) Hash() uint64 {
	raw := make([]byte, len(fb.buffer)*4)
	for i, px := range fb.buffer {
		binary.LittleEndian.PutUint32(raw[i*4:], px)
	}
	return xxhash.Sum64(raw)
}
