package cpu

// alu applies one of the eight accumulator operations. Half carry and carry
// come from the 9-bit result: H = (a^b^r)&0x10, C = r&0x100.
func (c *CPU) alu(op aluOp, value uint8) {
	a := c.a

	switch op {
	case aluADD, aluADC:
		carry := uint16(0)
		if op == aluADC {
			carry = uint16(c.flagToBit(carryFlag))
		}
		r := uint16(a) + uint16(value) + carry
		c.setArithmeticFlags(a, value, r, false)
		c.a = uint8(r)

	case aluSUB, aluSBC, aluCP:
		carry := uint16(0)
		if op == aluSBC {
			carry = uint16(c.flagToBit(carryFlag))
		}
		r := uint16(a) - uint16(value) - carry
		c.setArithmeticFlags(a, value, r, true)
		if op != aluCP {
			c.a = uint8(r)
		}

	case aluAND:
		c.a = a & value
		c.setLogicFlags(true)
	case aluXOR:
		c.a = a ^ value
		c.setLogicFlags(false)
	case aluOR:
		c.a = a | value
		c.setLogicFlags(false)
	}
}

func (c *CPU) setArithmeticFlags(a, b uint8, r uint16, sub bool) {
	c.setFlagToCondition(zeroFlag, uint8(r) == 0)
	c.setFlagToCondition(subFlag, sub)
	c.setFlagToCondition(halfCarryFlag, (uint16(a)^uint16(b)^r)&0x10 != 0)
	c.setFlagToCondition(carryFlag, r&0x100 != 0)
}

// setLogicFlags sets flags for AND/OR/XOR: Z from A, only AND sets H.
func (c *CPU) setLogicFlags(halfCarry bool) {
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.resetFlag(carryFlag)
}

// inc returns value+1. C is left untouched.
func (c *CPU) inc(value uint8) uint8 {
	r := value + 1
	c.setFlagToCondition(zeroFlag, r == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0x0F == 0x0F)
	return r
}

// dec returns value-1. C is left untouched.
func (c *CPU) dec(value uint8) uint8 {
	r := value - 1
	c.setFlagToCondition(zeroFlag, r == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0x0F == 0)
	return r
}

// addToHL adds a register pair to HL: H from bit 11, C from bit 15, Z kept.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	r := uint32(hl) + uint32(value)

	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (uint32(hl)^uint32(value)^r)&0x1000 != 0)
	c.setFlagToCondition(carryFlag, r&0x10000 != 0)

	c.setHL(uint16(r))
}

// addSPOffset returns SP plus a signed offset. Flags come from the low byte
// add of SP and the sign-extended offset; Z and N are cleared.
func (c *CPU) addSPOffset(offset int8) uint16 {
	sp := c.sp
	e := uint16(int16(offset))
	r := sp + e

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (sp^e^r)&0x10 != 0)
	c.setFlagToCondition(carryFlag, (sp^e^r)&0x100 != 0)

	return r
}

// rotate applies a CB shift/rotate family op. Z is set from the result;
// callers implementing RLCA/RRCA/RLA/RRA clear it afterwards.
func (c *CPU) rotate(op rotOp, value uint8) uint8 {
	var r uint8
	carry := false

	switch op {
	case rotRLC:
		r = value<<1 | value>>7
		carry = value&0x80 != 0
	case rotRRC:
		r = value>>1 | value<<7
		carry = value&0x01 != 0
	case rotRL:
		r = value<<1 | c.flagToBit(carryFlag)
		carry = value&0x80 != 0
	case rotRR:
		r = value>>1 | c.flagToBit(carryFlag)<<7
		carry = value&0x01 != 0
	case rotSLA:
		r = value << 1
		carry = value&0x80 != 0
	case rotSRA:
		r = value>>1 | value&0x80
		carry = value&0x01 != 0
	case rotSWAP:
		r = value<<4 | value>>4
	case rotSRL:
		r = value >> 1
		carry = value&0x01 != 0
	}

	c.setFlagToCondition(zeroFlag, r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)

	return r
}

// daa adjusts A to packed BCD after an addition or subtraction.
func (c *CPU) daa() {
	a := c.a
	var adjust uint8
	carry := c.isSetFlag(carryFlag)

	if !c.isSetFlag(subFlag) {
		if c.isSetFlag(halfCarryFlag) || a&0x0F > 0x09 {
			adjust |= 0x06
		}
		if carry || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		a += adjust
	} else {
		if c.isSetFlag(halfCarryFlag) {
			adjust |= 0x06
		}
		if carry {
			adjust |= 0x60
		}
		a -= adjust
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}
