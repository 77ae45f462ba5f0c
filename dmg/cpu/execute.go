package cpu

import (
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// execute runs a decoded instruction with PC already past its opcode bytes
// and returns the cycles taken.
func (c *CPU) execute(in *instruction) int {
	switch in.family {
	case famNop:
	case famLd8:
		c.write8(in.dst, c.read8(in.src))
	case famLd16:
		c.write16(in.dst, c.read16(in.src))
	case famLdNNSP:
		c.bus.WriteWord(c.readImmediateWord(), c.sp)
	case famLdHLSPe:
		c.setHL(c.addSPOffset(c.readSignedImmediate()))
	case famAddSP:
		c.sp = c.addSPOffset(c.readSignedImmediate())
	case famALU:
		c.alu(in.alu, c.read8(in.src))
	case famInc8:
		c.write8(in.dst, c.inc(c.read8(in.dst)))
	case famDec8:
		c.write8(in.dst, c.dec(c.read8(in.dst)))
	case famInc16:
		c.write16(in.dst, c.read16(in.dst)+1)
	case famDec16:
		c.write16(in.dst, c.read16(in.dst)-1)
	case famAddHL:
		c.addToHL(c.read16(in.src))
	case famRotA:
		c.a = c.rotate(in.rot, c.a)
		c.resetFlag(zeroFlag)
	case famRotCB:
		c.write8(in.dst, c.rotate(in.rot, c.read8(in.dst)))
	case famBit:
		c.setFlagToCondition(zeroFlag, !bit.IsSet(in.bit, c.read8(in.dst)))
		c.resetFlag(subFlag)
		c.setFlag(halfCarryFlag)
	case famRes:
		c.write8(in.dst, bit.Reset(in.bit, c.read8(in.dst)))
	case famSet:
		c.write8(in.dst, bit.Set(in.bit, c.read8(in.dst)))
	case famJP:
		target := c.readImmediateWord()
		if c.conditionMet(in.cond) {
			c.pc = target
			return in.taken
		}
	case famJPHL:
		c.pc = c.getHL()
	case famJR:
		offset := c.readSignedImmediate()
		if c.conditionMet(in.cond) {
			c.pc = uint16(int32(c.pc) + int32(offset))
			return in.taken
		}
	case famCall:
		target := c.readImmediateWord()
		if c.conditionMet(in.cond) {
			c.pushStack(c.pc)
			c.pc = target
			return in.taken
		}
	case famRet:
		if c.conditionMet(in.cond) {
			c.pc = c.popStack()
			return in.taken
		}
	case famReti:
		c.pc = c.popStack()
		c.interruptsEnabled = true
		c.eiPending = false
	case famRst:
		c.pushStack(c.pc)
		c.pc = in.vector
	case famPush:
		c.pushStack(c.read16(in.src))
	case famPop:
		c.write16(in.dst, c.popStack())
	case famDAA:
		c.daa()
	case famCPL:
		c.a = ^c.a
		c.setFlag(subFlag)
		c.setFlag(halfCarryFlag)
	case famSCF:
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlag(carryFlag)
	case famCCF:
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
	case famDI:
		c.interruptsEnabled = false
		c.eiPending = false
	case famEI:
		c.eiPending = true
	case famHalt:
		c.halted = true
	case famStop:
		// the byte after STOP is padding
		c.readImmediate()
		c.stopped = true
	case famIllegal:
		c.illegalOpcode()
	}

	return in.cycles
}

func (c *CPU) conditionMet(cond condition) bool {
	switch cond {
	case condNZ:
		return !c.isSetFlag(zeroFlag)
	case condZ:
		return c.isSetFlag(zeroFlag)
	case condNC:
		return !c.isSetFlag(carryFlag)
	case condC:
		return c.isSetFlag(carryFlag)
	default:
		return true
	}
}

// read8 returns the value of an 8-bit operand, consuming immediates.
func (c *CPU) read8(o operand) uint8 {
	switch o {
	case opA:
		return c.a
	case opB:
		return c.b
	case opC:
		return c.c
	case opD:
		return c.d
	case opE:
		return c.e
	case opH:
		return c.h
	case opL:
		return c.l
	case opImm8:
		return c.readImmediate()
	case opHLInd:
		return c.bus.Read(c.getHL())
	case opHLIncInd:
		hl := c.getHL()
		c.setHL(hl + 1)
		return c.bus.Read(hl)
	case opHLDecInd:
		hl := c.getHL()
		c.setHL(hl - 1)
		return c.bus.Read(hl)
	}
	return c.bus.Read(c.address(o))
}

// write8 stores an 8-bit operand.
func (c *CPU) write8(o operand, value uint8) {
	switch o {
	case opA:
		c.a = value
	case opB:
		c.b = value
	case opC:
		c.c = value
	case opD:
		c.d = value
	case opE:
		c.e = value
	case opH:
		c.h = value
	case opL:
		c.l = value
	case opHLInd:
		c.bus.Write(c.getHL(), value)
	case opHLIncInd:
		hl := c.getHL()
		c.setHL(hl + 1)
		c.bus.Write(hl, value)
	case opHLDecInd:
		hl := c.getHL()
		c.setHL(hl - 1)
		c.bus.Write(hl, value)
	default:
		c.bus.Write(c.address(o), value)
	}
}

// address resolves the remaining memory operands, consuming immediates.
func (c *CPU) address(o operand) uint16 {
	switch o {
	case opBCInd:
		return c.getBC()
	case opDEInd:
		return c.getDE()
	case opImm16Ind:
		return c.readImmediateWord()
	case opHighImm:
		return 0xFF00 | uint16(c.readImmediate())
	case opHighC:
		return 0xFF00 | uint16(c.c)
	}
	panic("cpu: operand " + o.String() + " has no address")
}

func (c *CPU) read16(o operand) uint16 {
	switch o {
	case opBC:
		return c.getBC()
	case opDE:
		return c.getDE()
	case opHL:
		return c.getHL()
	case opSP:
		return c.sp
	case opAF:
		return c.getAF()
	case opImm16:
		return c.readImmediateWord()
	}
	panic("cpu: operand " + o.String() + " is not a 16-bit source")
}

func (c *CPU) write16(o operand, value uint16) {
	switch o {
	case opBC:
		c.setBC(value)
	case opDE:
		c.setDE(value)
	case opHL:
		c.setHL(value)
	case opSP:
		c.sp = value
	case opAF:
		c.setAF(value)
	default:
		panic("cpu: operand " + o.String() + " is not a 16-bit destination")
	}
}
