package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]uint8{
	"REGISTERS":  REGISTERS,
	"CODE_SIZE":  CODE_SIZE,
	"MEMORY_TOP": MEMORY_SIZE - 1,
}

// Step is the outcome of executing a single instruction.
type Step struct {
	Pc     uint8 // Address of the executed instruction.
	Next   uint8 // Program counter after the step.
	Code   Code  // Executed instruction.
	Jumped bool  // Set if the instruction jumped.
	Halted bool  // Set if the CPU is halted.

	Result    uint8 // Value produced by the instruction.
	HasResult bool  // Set if the instruction produced a value.

	Address    uint8 // Memory address touched by the instruction.
	HasAddress bool  // Set if the instruction touched memory.
}

// setResult records the value produced by an instruction.
func (step *Step) setResult(value uint8) {
	step.Result = value
	step.HasResult = true
}

// setAddress records the memory address touched by an instruction.
func (step *Step) setAddress(addr uint8) {
	step.Address = addr
	step.HasAddress = true
}

// Cpu is the simulation context for the bytevm processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTERS]uint8   // Register bank, A through P.
	Memory   [MEMORY_SIZE]uint8 // Memory.
	Pc       uint8              // Address of the next instruction.
	Halted   bool               // Set once STOP has executed.

	Result    uint8 // Value produced by the most recent producing instruction.
	HasResult bool  // Set once any instruction has produced a value.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, uint8] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 6s: %02X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 6s: %v\n", "halted", cpu.Halted)
	if cpu.HasResult {
		text += fmt.Sprintf("% 6s: %02X\n", "result", cpu.Result)
	} else {
		text += fmt.Sprintf("% 6s: --\n", "result")
	}
	for n, value := range cpu.Register {
		text += fmt.Sprintf("% 6s: %02X\n", RegisterName(uint8(n)), value)
	}

	return
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Clears the last result and halted flag.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Result = 0
	cpu.HasResult = false
	cpu.Ticks = 0
}

// Load copies data into memory at start, and sets the program counter to
// start. Data beyond the end of memory is silently dropped. Returns the
// number of bytes copied.
func (cpu *Cpu) Load(data []byte, start uint8) (n int) {
	n = copy(cpu.Memory[start:], data)
	cpu.Pc = start

	if cpu.Verbose {
		log.Printf("cpu: load %d of %d bytes at 0x%02x", n, len(data), start)
	}

	return
}

// Fetch reads the instruction at the program counter. The second byte of
// an instruction at 0xFF is read from 0x00.
func (cpu *Cpu) Fetch() Code {
	return CodeFromBytes(cpu.Memory[cpu.Pc], cpu.Memory[cpu.Pc+1])
}

// Step executes a single instruction. Once halted, Step does nothing.
func (cpu *Cpu) Step() (step Step, err error) {
	if cpu.Halted {
		step = Step{Pc: cpu.Pc, Next: cpu.Pc, Halted: true}
		return
	}

	return cpu.Execute(cpu.Fetch())
}

// Execute executes a single decoded instruction, as if it had been fetched
// from the program counter. Illegal instructions leave the CPU state
// unchanged.
func (cpu *Cpu) Execute(code Code) (step Step, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("cpu: %02x: %v", cpu.Pc, code)
	}

	step = Step{Pc: cpu.Pc, Code: code}

	next_pc := cpu.Pc + CODE_SIZE
	reg := code.Reg()

	switch op := code.Op(); op {
	case OP_LOADM:
		addr := code.Operand()
		cpu.Register[reg] = cpu.Memory[addr]
		step.setAddress(addr)
		step.setResult(cpu.Register[reg])
	case OP_STORE:
		addr := code.Operand()
		cpu.Memory[addr] = cpu.Register[reg]
		step.setAddress(addr)
		step.setResult(cpu.Memory[addr])
	case OP_JUMPZ:
		if cpu.HasResult && cpu.Result == 0 {
			next_pc = code.Operand()
			step.Jumped = true
		}
	case OP_ADD, OP_SUB:
		src1, src2 := code.Sources()
		cpu.Register[reg] = doAlu(op, cpu.Register[src1], cpu.Register[src2])
		step.setResult(cpu.Register[reg])
	case OP_DEC, OP_INC:
		cpu.Register[reg] = doAlu(op, cpu.Register[reg], 1)
		step.setResult(cpu.Register[reg])
	case OP_LOADC:
		cpu.Register[reg] = code.Operand()
		step.setResult(cpu.Register[reg])
	case OP_COPY:
		src, _ := code.Sources()
		cpu.Register[reg] = cpu.Register[src]
	case OP_STOP:
		cpu.Halted = true
		next_pc = cpu.Pc
	case OP_ILLEGAL:
		err = ErrOpcodeIllegal
		return
	}

	if step.HasResult {
		cpu.Result = step.Result
		cpu.HasResult = true
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	step.Next = next_pc
	step.Halted = cpu.Halted

	return
}
