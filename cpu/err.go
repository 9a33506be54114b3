package cpu

import (
	"github.com/ezrec/bytevm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOpcodeIllegal = translate.Error("illegal opcode")

	// Assembler errors
	ErrEquateSyntax       = translate.Error(".equ syntax")
	ErrEquateDuplicate    = translate.Error(".equ duplicated")
	ErrLabelDuplicate     = translate.Error("label duplicated")
	ErrInstructionInvalid = translate.Error("instruction invalid")
)

// ErrLabelMissing is a jump to a label that is never declared.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrLabelRange is a jump to a label beyond the 8-bit address space.
type ErrLabelRange struct {
	Label   string
	Address int
}

func (el *ErrLabelRange) Error() string {
	return f("label %v address 0x%x out of range", el.Label, el.Address)
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", uint16(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
