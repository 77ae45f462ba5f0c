package cpu

import (
	"fmt"
	"strings"

	"github.com/valerio/go-dmgcore/dmg/bit"
)

// Disassemble returns the instruction at address in text form with its
// immediates filled in, and its length in bytes.
func (c *CPU) Disassemble(address uint16) (string, int) {
	in := &instructions[c.bus.Read(address)]
	if in.family == famPrefix {
		in = &cbInstructions[c.bus.Read(address+1)]
		return in.mnemonic, in.length
	}

	text := in.mnemonic
	switch in.length {
	case 2:
		n := c.bus.Read(address + 1)
		switch in.family {
		case famJR, famAddSP:
			text = strings.Replace(text, "e", fmt.Sprintf("%+d", int8(n)), 1)
		case famLdHLSPe:
			text = strings.Replace(text, "+e", fmt.Sprintf("%+d", int8(n)), 1)
		default:
			text = strings.Replace(text, "n", fmt.Sprintf("$%02X", n), 1)
		}
	case 3:
		nn := bit.Combine(c.bus.Read(address+2), c.bus.Read(address+1))
		text = strings.Replace(text, "nn", fmt.Sprintf("$%04X", nn), 1)
	}

	return text, in.length
}

// Mnemonic returns the template mnemonic of an opcode, with n, nn and e
// standing for immediates. CB-prefixed opcodes are passed as 0xCBxx.
func Mnemonic(opcode uint16) string {
	if bit.High(opcode) == 0xCB {
		return cbInstructions[bit.Low(opcode)].mnemonic
	}
	return instructions[bit.Low(opcode)].mnemonic
}
