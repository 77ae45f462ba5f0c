package cpu

import "fmt"

// family groups opcodes that share an implementation in execute.
type family uint8

const (
	famIllegal family = iota
	famNop
	famLd8
	famLd16
	famLdNNSP
	famLdHLSPe
	famALU
	famInc8
	famDec8
	famInc16
	famDec16
	famAddHL
	famAddSP
	famRotA
	famRotCB
	famBit
	famRes
	famSet
	famJP
	famJPHL
	famJR
	famCall
	famRet
	famReti
	famRst
	famPush
	famPop
	famDAA
	famCPL
	famSCF
	famCCF
	famDI
	famEI
	famHalt
	famStop
	famPrefix
)

// operand names a register, register pair or memory location an
// instruction reads or writes. The first eight follow the r[] encoding of
// opcode bits, so r[i] == opB + i.
type operand uint8

const (
	opNone operand = iota
	opB
	opC
	opD
	opE
	opH
	opL
	opHLInd // (HL)
	opA
	opImm8     // n
	opImm16    // nn
	opBCInd    // (BC)
	opDEInd    // (DE)
	opHLIncInd // (HL+)
	opHLDecInd // (HL-)
	opImm16Ind // (nn)
	opHighImm  // (FF00+n)
	opHighC    // (FF00+C)
	opBC
	opDE
	opHL
	opSP
	opAF
)

var operandNames = [...]string{
	opNone:     "",
	opB:        "B",
	opC:        "C",
	opD:        "D",
	opE:        "E",
	opH:        "H",
	opL:        "L",
	opHLInd:    "(HL)",
	opA:        "A",
	opImm8:     "n",
	opImm16:    "nn",
	opBCInd:    "(BC)",
	opDEInd:    "(DE)",
	opHLIncInd: "(HL+)",
	opHLDecInd: "(HL-)",
	opImm16Ind: "(nn)",
	opHighImm:  "(FF00+n)",
	opHighC:    "(FF00+C)",
	opBC:       "BC",
	opDE:       "DE",
	opHL:       "HL",
	opSP:       "SP",
	opAF:       "AF",
}

func (o operand) String() string {
	return operandNames[o]
}

// memory reports whether the operand goes through the bus.
func (o operand) memory() bool {
	switch o {
	case opHLInd, opBCInd, opDEInd, opHLIncInd, opHLDecInd, opImm16Ind, opHighImm, opHighC:
		return true
	}
	return false
}

type aluOp uint8

const (
	aluADD aluOp = iota
	aluADC
	aluSUB
	aluSBC
	aluAND
	aluXOR
	aluOR
	aluCP
)

var aluNames = [...]string{"ADD", "ADC", "SUB", "SBC", "AND", "XOR", "OR", "CP"}

type rotOp uint8

const (
	rotRLC rotOp = iota
	rotRRC
	rotRL
	rotRR
	rotSLA
	rotSRA
	rotSWAP
	rotSRL
)

var rotNames = [...]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

type condition uint8

const (
	condAlways condition = iota
	condNZ
	condZ
	condNC
	condC
)

var condNames = [...]string{"", "NZ", "Z", "NC", "C"}

// instruction is one entry of the decode table.
type instruction struct {
	mnemonic string
	family   family
	dst      operand
	src      operand
	alu      aluOp
	rot      rotOp
	cond     condition
	bit      uint8
	vector   uint16
	cycles   int // cost when not taken, or the only cost
	taken    int // cost when a condition holds
	length   int // bytes including the opcode (and the 0xCB prefix)
}

var (
	rTable   = [8]operand{opB, opC, opD, opE, opH, opL, opHLInd, opA}
	rpTable  = [4]operand{opBC, opDE, opHL, opSP}
	rp2Table = [4]operand{opBC, opDE, opHL, opAF}
	ccTable  = [4]condition{condNZ, condZ, condNC, condC}
)

var (
	instructions   [256]instruction
	cbInstructions [256]instruction
)

func init() {
	for i := range 256 {
		instructions[i] = decode(uint8(i))
		cbInstructions[i] = decodeCB(uint8(i))
	}
}

var illegal = instruction{mnemonic: "ILLEGAL", family: famIllegal, cycles: 4, length: 1}

func simple(f family, mnemonic string, cycles int) instruction {
	return instruction{mnemonic: mnemonic, family: f, cycles: cycles, length: 1}
}

// length returns the instruction size implied by its operands.
func operandLength(ops ...operand) int {
	n := 1
	for _, o := range ops {
		switch o {
		case opImm8, opHighImm:
			n++
		case opImm16, opImm16Ind:
			n += 2
		}
	}
	return n
}

func ld8(dst, src operand) instruction {
	cycles := 4
	switch {
	case dst == opHLInd && src == opImm8:
		cycles = 12
	case dst == opImm16Ind || src == opImm16Ind:
		cycles = 16
	case dst == opHighImm || src == opHighImm:
		cycles = 12
	case dst.memory() || src.memory() || src == opImm8:
		cycles = 8
	}
	return instruction{
		mnemonic: fmt.Sprintf("LD %s,%s", dst, src),
		family:   famLd8,
		dst:      dst,
		src:      src,
		cycles:   cycles,
		length:   operandLength(dst, src),
	}
}

func conditional(f family, name string, cond condition, target string, cycles, taken, length int) instruction {
	mnemonic := name
	switch {
	case cond != condAlways && target != "":
		mnemonic = fmt.Sprintf("%s %s,%s", name, condNames[cond], target)
	case cond != condAlways:
		mnemonic = fmt.Sprintf("%s %s", name, condNames[cond])
	case target != "":
		mnemonic = fmt.Sprintf("%s %s", name, target)
	}
	return instruction{mnemonic: mnemonic, family: f, cond: cond, cycles: cycles, taken: taken, length: length}
}

// decode builds the table entry for an unprefixed opcode from its bit
// fields: x = bits 7-6, y = bits 5-3, z = bits 2-0, p = y>>1, q = y&1.
func decode(op uint8) instruction {
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	switch x {
	case 0:
		switch z {
		case 0:
			switch {
			case y == 0:
				return simple(famNop, "NOP", 4)
			case y == 1:
				return instruction{mnemonic: "LD (nn),SP", family: famLdNNSP, cycles: 20, length: 3}
			case y == 2:
				return instruction{mnemonic: "STOP", family: famStop, cycles: 4, length: 2}
			case y == 3:
				return conditional(famJR, "JR", condAlways, "e", 12, 12, 2)
			default:
				return conditional(famJR, "JR", ccTable[y-4], "e", 8, 12, 2)
			}
		case 1:
			if q == 0 {
				return instruction{mnemonic: fmt.Sprintf("LD %s,nn", rpTable[p]), family: famLd16, dst: rpTable[p], src: opImm16, cycles: 12, length: 3}
			}
			return instruction{mnemonic: fmt.Sprintf("ADD HL,%s", rpTable[p]), family: famAddHL, src: rpTable[p], cycles: 8, length: 1}
		case 2:
			mem := [4]operand{opBCInd, opDEInd, opHLIncInd, opHLDecInd}[p]
			if q == 0 {
				return ld8(mem, opA)
			}
			return ld8(opA, mem)
		case 3:
			if q == 0 {
				return instruction{mnemonic: fmt.Sprintf("INC %s", rpTable[p]), family: famInc16, dst: rpTable[p], cycles: 8, length: 1}
			}
			return instruction{mnemonic: fmt.Sprintf("DEC %s", rpTable[p]), family: famDec16, dst: rpTable[p], cycles: 8, length: 1}
		case 4, 5:
			f, name := famInc8, "INC"
			if z == 5 {
				f, name = famDec8, "DEC"
			}
			cycles := 4
			if rTable[y] == opHLInd {
				cycles = 12
			}
			return instruction{mnemonic: fmt.Sprintf("%s %s", name, rTable[y]), family: f, dst: rTable[y], cycles: cycles, length: 1}
		case 6:
			return ld8(rTable[y], opImm8)
		case 7:
			switch y {
			case 0, 1, 2, 3:
				rot := rotOp(y)
				return instruction{mnemonic: rotNames[rot] + "A", family: famRotA, rot: rot, dst: opA, cycles: 4, length: 1}
			case 4:
				return simple(famDAA, "DAA", 4)
			case 5:
				return simple(famCPL, "CPL", 4)
			case 6:
				return simple(famSCF, "SCF", 4)
			default:
				return simple(famCCF, "CCF", 4)
			}
		}

	case 1:
		if y == 6 && z == 6 {
			return simple(famHalt, "HALT", 4)
		}
		return ld8(rTable[y], rTable[z])

	case 2:
		return aluInstruction(aluOp(y), rTable[z])

	case 3:
		switch z {
		case 0:
			switch {
			case y < 4:
				return conditional(famRet, "RET", ccTable[y], "", 8, 20, 1)
			case y == 4:
				return ld8(opHighImm, opA)
			case y == 5:
				return instruction{mnemonic: "ADD SP,e", family: famAddSP, cycles: 16, length: 2}
			case y == 6:
				return ld8(opA, opHighImm)
			default:
				return instruction{mnemonic: "LD HL,SP+e", family: famLdHLSPe, cycles: 12, length: 2}
			}
		case 1:
			if q == 0 {
				return instruction{mnemonic: fmt.Sprintf("POP %s", rp2Table[p]), family: famPop, dst: rp2Table[p], cycles: 12, length: 1}
			}
			switch p {
			case 0:
				return conditional(famRet, "RET", condAlways, "", 16, 16, 1)
			case 1:
				return simple(famReti, "RETI", 16)
			case 2:
				return simple(famJPHL, "JP (HL)", 4)
			default:
				return instruction{mnemonic: "LD SP,HL", family: famLd16, dst: opSP, src: opHL, cycles: 8, length: 1}
			}
		case 2:
			switch {
			case y < 4:
				return conditional(famJP, "JP", ccTable[y], "nn", 12, 16, 3)
			case y == 4:
				return ld8(opHighC, opA)
			case y == 5:
				return ld8(opImm16Ind, opA)
			case y == 6:
				return ld8(opA, opHighC)
			default:
				return ld8(opA, opImm16Ind)
			}
		case 3:
			switch y {
			case 0:
				return conditional(famJP, "JP", condAlways, "nn", 16, 16, 3)
			case 1:
				return instruction{mnemonic: "PREFIX CB", family: famPrefix, cycles: 4, length: 2}
			case 6:
				return simple(famDI, "DI", 4)
			case 7:
				return simple(famEI, "EI", 4)
			default:
				return illegal
			}
		case 4:
			if y < 4 {
				return conditional(famCall, "CALL", ccTable[y], "nn", 12, 24, 3)
			}
			return illegal
		case 5:
			if q == 0 {
				return instruction{mnemonic: fmt.Sprintf("PUSH %s", rp2Table[p]), family: famPush, src: rp2Table[p], cycles: 16, length: 1}
			}
			if p == 0 {
				return conditional(famCall, "CALL", condAlways, "nn", 24, 24, 3)
			}
			return illegal
		case 6:
			return aluInstruction(aluOp(y), opImm8)
		case 7:
			vector := uint16(y) * 8
			return instruction{mnemonic: fmt.Sprintf("RST %02XH", vector), family: famRst, vector: vector, cycles: 16, length: 1}
		}
	}

	return illegal
}

func aluInstruction(op aluOp, src operand) instruction {
	cycles := 4
	if src == opHLInd || src == opImm8 {
		cycles = 8
	}

	mnemonic := fmt.Sprintf("%s %s", aluNames[op], src)
	if op == aluADD || op == aluADC || op == aluSBC {
		mnemonic = fmt.Sprintf("%s A,%s", aluNames[op], src)
	}

	return instruction{mnemonic: mnemonic, family: famALU, alu: op, src: src, cycles: cycles, length: operandLength(src)}
}

// decodeCB builds the table entry for the byte following a 0xCB prefix.
func decodeCB(op uint8) instruction {
	x, y, z := op>>6, (op>>3)&7, op&7
	target := rTable[z]

	cycles := 8
	if target == opHLInd {
		cycles = 16
		if x == 1 {
			cycles = 12
		}
	}

	in := instruction{dst: target, cycles: cycles, length: 2}
	switch x {
	case 0:
		in.family = famRotCB
		in.rot = rotOp(y)
		in.mnemonic = fmt.Sprintf("%s %s", rotNames[y], target)
	case 1:
		in.family = famBit
		in.bit = y
		in.mnemonic = fmt.Sprintf("BIT %d,%s", y, target)
	case 2:
		in.family = famRes
		in.bit = y
		in.mnemonic = fmt.Sprintf("RES %d,%s", y, target)
	default:
		in.family = famSet
		in.bit = y
		in.mnemonic = fmt.Sprintf("SET %d,%s", y, target)
	}
	return in
}
