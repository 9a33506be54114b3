// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"iter"
	"log"
	"maps"

	"github.com/ezrec/bytevm/cpu"
	"github.com/ezrec/bytevm/internal"
	"github.com/ezrec/bytevm/object"
)

const (
	STEP_LIMIT = 4096 // Default step limit for Run.
)

// Emulator state. CPU + program listing + load address.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Start    uint8        // Load address.

	last cpu.Step
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, uint8] {
	return internal.IterSeq2Concat(
		maps.All(map[string]uint8{"ORIGIN": emu.Start}),
		emu.Cpu.Defines(),
	)
}

// Reset the CPU and load the program at the load address.
func (emu *Emulator) Reset() (err error) {
	if emu.Program.Start != emu.Start {
		err = &ErrOrigin{Program: emu.Program.Start, Start: emu.Start}
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	data := emu.Program.Binary()
	n := emu.Cpu.Load(data, emu.Start)
	if n < len(data) && emu.Verbose {
		log.Printf("emulator: program truncated to %d of %d bytes", n, len(data))
	}

	emu.last = cpu.Step{}

	return
}

// LoadImage resets the CPU and loads a raw object image at the load
// address. The program listing is replaced by an empty one.
func (emu *Emulator) LoadImage(img *object.Image) {
	emu.Program = &cpu.Program{Start: emu.Start}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Load(img.Data, emu.Start)

	emu.last = cpu.Step{}
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Last returns the outcome of the most recent tick.
func (emu *Emulator) Last() cpu.Step {
	return emu.last
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Source returns the source text at an address. Without a listing, the
// instruction in memory is disassembled.
func (emu *Emulator) Source(addr uint8) string {
	if text := emu.Program.Source(addr); len(text) != 0 {
		return text
	}

	if emu.Program.Debug(addr).Opcode != nil {
		// Second byte of an instruction.
		return ""
	}

	return cpu.CodeFromBytes(emu.Cpu.Memory[addr], emu.Cpu.Memory[addr+1]).String()
}

// LabelAt returns the labels declared at an address.
func (emu *Emulator) LabelAt(addr uint8) []string {
	return emu.Program.LabelAt(int(addr))
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	if emu.Cpu.Halted {
		done = true
		return
	}

	emu.last, err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the CPU halts. A limit greater than zero
// bounds the number of ticks.
func (emu *Emulator) Run(limit int) (err error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrStepLimit
	return
}
