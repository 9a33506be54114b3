package emulator

import (
	"github.com/ezrec/bytevm/translate"
)

var f = translate.From

var (
	ErrStepLimit = translate.Error("step limit reached")
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     uint8
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d pc 0x%02x %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrOrigin is a program assembled for a different load address.
type ErrOrigin struct {
	Program uint8
	Start   uint8
}

func (err *ErrOrigin) Error() string {
	return f("program assembled for 0x%02x, loaded at 0x%02x", err.Program, err.Start)
}
