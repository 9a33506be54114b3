package cpu

import (
	"fmt"
)

const (
	REGISTERS   = 16  // Number of registers, A through P.
	MEMORY_SIZE = 256 // Bytes of memory.
	CODE_SIZE   = 2   // Bytes per instruction.
)

// Op is the operation tag carried in the high nibble of an instruction.
type Op uint8

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LOADM   = Op(0x0)  // LOADM
	OP_STORE   = Op(0x1)  // STORE
	OP_JUMPZ   = Op(0x2)  // JUMPZ
	OP_ADD     = Op(0x3)  // ADD
	OP_SUB     = Op(0x4)  // SUB
	OP_DEC     = Op(0x5)  // DEC
	OP_INC     = Op(0x6)  // INC
	OP_LOADC   = Op(0x7)  // LOADC
	OP_COPY    = Op(0x8)  // COPY
	OP_STOP    = Op(0xf)  // STOP
	OP_ILLEGAL = Op(0xff) // ILLEGAL
)

// Opcode represents a line of assembled code with its source location and generated instruction.
type Opcode struct {
	LineNo    int    // Source line number, 1-based.
	Ip        int    // Byte address of the instruction.
	Line      string // Normalized source text.
	Code      Code   // Encoded instruction.
	LinkLabel string // Label to patch into a jump, if any.
}

// Code is a single two byte instruction. The first byte in memory is the
// high byte of the Code.
type Code uint16

// RegisterName returns the letter naming a register index.
func RegisterName(reg uint8) string {
	return string(rune('A' + (reg & 0xf)))
}

// CodeFromBytes assembles a Code from the two bytes of an instruction.
func CodeFromBytes(first, second uint8) Code {
	return Code(uint16(first)<<8 | uint16(second))
}

// makeCode creates an instruction from its op, low nibble and operand byte.
func makeCode(op Op, low uint8, operand uint8) Code {
	return CodeFromBytes((uint8(op)<<4)|(low&0xf), operand)
}

// MakeCodeRegByte creates a LOADM, STORE or LOADC instruction.
func MakeCodeRegByte(op Op, reg uint8, value uint8) Code {
	return makeCode(op, reg, value)
}

// MakeCodeJump creates a JUMPZ instruction to an absolute address.
func MakeCodeJump(target uint8) Code {
	return makeCode(OP_JUMPZ, 0, target)
}

// MakeCodeArith creates an ADD or SUB instruction.
func MakeCodeArith(op Op, dst, src1, src2 uint8) Code {
	return makeCode(op, dst, ((src1&0xf)<<4)|(src2&0xf))
}

// MakeCodeReg creates an INC or DEC instruction.
func MakeCodeReg(op Op, reg uint8) Code {
	return makeCode(op, reg, 0)
}

// MakeCodeCopy creates a COPY instruction.
func MakeCodeCopy(dst, src uint8) Code {
	return makeCode(OP_COPY, dst, (src&0xf)<<4)
}

// MakeCodeStop creates the STOP instruction.
func MakeCodeStop() Code {
	return makeCode(OP_STOP, 0, 0)
}

// Bytes returns the instruction in memory order.
func (code Code) Bytes() [CODE_SIZE]uint8 {
	return [CODE_SIZE]uint8{uint8(code >> 8), uint8(code)}
}

// Nibble returns the raw operation nibble.
func (code Code) Nibble() uint8 {
	return uint8(code>>12) & 0xf
}

// Op decodes the operation. Undefined nibbles decode to OP_ILLEGAL.
func (code Code) Op() Op {
	op := Op(code.Nibble())
	switch op {
	case OP_LOADM, OP_STORE, OP_JUMPZ, OP_ADD, OP_SUB,
		OP_DEC, OP_INC, OP_LOADC, OP_COPY, OP_STOP:
		return op
	}

	return OP_ILLEGAL
}

// Reg returns the register index in the low nibble of the first byte.
func (code Code) Reg() uint8 {
	return uint8(code>>8) & 0xf
}

// Operand returns the second byte of the instruction.
func (code Code) Operand() uint8 {
	return uint8(code)
}

// Sources returns the two register indexes packed in the operand byte.
func (code Code) Sources() (src1, src2 uint8) {
	operand := code.Operand()
	src1 = operand >> 4
	src2 = operand & 0xf
	return
}

// String returns the assembly language representation of this instruction.
// Jump targets are shown as addresses.
func (code Code) String() (out string) {
	op := code.Op()
	reg := RegisterName(code.Reg())
	src1, src2 := code.Sources()

	switch op {
	case OP_LOADM, OP_STORE, OP_LOADC:
		out = fmt.Sprintf("%v %v %02X", op, reg, code.Operand())
	case OP_JUMPZ:
		out = fmt.Sprintf("%v %02X", op, code.Operand())
	case OP_ADD, OP_SUB:
		out = fmt.Sprintf("%v %v %v %v", op, reg, RegisterName(src1), RegisterName(src2))
	case OP_DEC, OP_INC:
		out = fmt.Sprintf("%v %v", op, reg)
	case OP_COPY:
		out = fmt.Sprintf("%v %v %v", op, reg, RegisterName(src1))
	case OP_STOP:
		out = op.String()
	default:
		out = fmt.Sprintf("%v %04X", op, uint16(code))
	}

	return
}
