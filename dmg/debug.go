package dmg

import (
	"fmt"

	"github.com/valerio/go-dmgcore/dmg/bit"
)

// DebugText returns a snapshot of the machine state as display lines: the
// next instruction, cycle counts, boot state, flags, registers, scroll and
// the LCD line and mode.
func (d *DMG) DebugText() []string {
	c := d.cpu
	ppu := d.mem.PPU

	pc := c.GetPC()
	opcode := uint16(d.mem.Read(pc))
	if opcode == 0xCB {
		opcode = bit.Combine(0xCB, d.mem.Read(pc+1))
	}
	text, _ := c.Disassemble(pc)

	f := c.GetF()
	return []string{
		fmt.Sprintf("Opcode: %X %s", opcode, text),
		fmt.Sprintf("Total Cycles: %d, Cycles just executed: %d", c.GetCycles(), d.lastCycles),
		fmt.Sprintf("Currently in boot ROM: %t", d.mem.BootROMActive()),
		fmt.Sprintf("Flags: Z: %t, N: %t, H: %t, C: %t", f&0x80 != 0, f&0x40 != 0, f&0x20 != 0, f&0x10 != 0),
		fmt.Sprintf("PC: %04X\tSP: %04X", pc, c.GetSP()),
		fmt.Sprintf("A: %02X\tF: %02X\tB: %02X\tC: %02X", c.GetA(), f, c.GetB(), c.GetC()),
		fmt.Sprintf("D: %02X\tE: %02X\tH: %02X\tL: %02X", c.GetD(), c.GetE(), c.GetH(), c.GetL()),
		fmt.Sprintf("SCX: %d, SCY: %d", ppu.SCX(), ppu.SCY()),
		fmt.Sprintf("LY: %d, Mode: %s", ppu.LY(), ppu.Mode()),
	}
}
