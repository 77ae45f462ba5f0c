package cpu

import (
	"errors"
	"fmt"
)

// ErrIllegalOpcode is wrapped by every IllegalOpcodeError.
var ErrIllegalOpcode = errors.New("illegal opcode")

// IllegalOpcodeError records an unassigned opcode hit in strict mode.
type IllegalOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

func (e *IllegalOpcodeError) Unwrap() error {
	return ErrIllegalOpcode
}
