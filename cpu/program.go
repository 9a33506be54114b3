package cpu

import (
	"io"
	"iter"
	"slices"
)

// Program is an assembled program, with its labels and source annotations.
type Program struct {
	Start   uint8          // Address the program was assembled for.
	Opcodes []Opcode       // Instructions, in address order.
	Label   map[string]int // Map of labels to byte addresses.
}

type Debug struct {
	*Opcode
	Index int // Byte offset of the address within the instruction.
}

// Debug returns the opcode covering an address.
func (prog *Program) Debug(ip uint8) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+CODE_SIZE {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Source returns the source text of the instruction at an address, or
// an empty string.
func (prog *Program) Source(ip uint8) string {
	dbg := prog.Debug(ip)
	if dbg.Opcode == nil || dbg.Index != 0 {
		return ""
	}

	return dbg.Line
}

// LabelAt returns the labels declared at an address, sorted by name.
func (prog *Program) LabelAt(ip int) (labels []string) {
	for label, addr := range prog.Label {
		if addr == ip {
			labels = append(labels, label)
		}
	}
	slices.Sort(labels)

	return
}

// Codes iterates over the address and code of every instruction.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Code) {
				return
			}
		}
	}
}

// Binary returns the object bytes of the program: two bytes per
// instruction, in program order, with no header.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, 0, len(prog.Opcodes)*CODE_SIZE)
	for _, code := range prog.Codes() {
		data := code.Bytes()
		bins = append(bins, data[:]...)
	}

	return
}

// WriteTo writes the object bytes of the program.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	written, err := w.Write(prog.Binary())
	n = int64(written)
	return
}
