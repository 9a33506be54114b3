package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCpuLoad(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	n := cpu.Load(data, 0xfa)
	assert.Equal(6, n)
	assert.Equal(uint8(0xfa), cpu.Pc)
	assert.Equal([]uint8{1, 2, 3, 4, 5, 6}, cpu.Memory[0xfa:])
	assert.Equal(uint8(0), cpu.Memory[0])

	// The loader copies; later changes to the source are not seen.
	data[0] = 0xee
	assert.Equal(uint8(1), cpu.Memory[0xfa])

	n = cpu.Load(data[:4], 0)
	assert.Equal(4, n)
	assert.Equal(uint8(0), cpu.Pc)
}

func TestCpuFetchWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Memory[0xff] = 0x60
	cpu.Memory[0x00] = 0x01
	cpu.Pc = 0xff

	assert.Equal(Code(0x60_01), cpu.Fetch())
}

func TestCpuExecute(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		code     Code
		register [REGISTERS]uint8
		memory   map[uint8]uint8
		result   int // -1 for no result
		address  int // -1 for no address
		check    func(cpu *Cpu)
	}){
		{"loadm", MakeCodeRegByte(OP_LOADM, 1, 0x80), [REGISTERS]uint8{}, map[uint8]uint8{0x80: 0x42}, 0x42, 0x80,
			func(cpu *Cpu) { assert.Equal(uint8(0x42), cpu.Register[1]) }},
		{"store", MakeCodeRegByte(OP_STORE, 2, 0x90), [REGISTERS]uint8{2: 0x33}, nil, 0x33, 0x90,
			func(cpu *Cpu) { assert.Equal(uint8(0x33), cpu.Memory[0x90]) }},
		{"add", MakeCodeArith(OP_ADD, 0, 1, 2), [REGISTERS]uint8{1: 0xf0, 2: 0x20}, nil, 0x10, -1,
			func(cpu *Cpu) { assert.Equal(uint8(0x10), cpu.Register[0]) }},
		{"sub", MakeCodeArith(OP_SUB, 3, 1, 2), [REGISTERS]uint8{1: 0x10, 2: 0x20}, nil, 0xf0, -1,
			func(cpu *Cpu) { assert.Equal(uint8(0xf0), cpu.Register[3]) }},
		{"sub_self", MakeCodeArith(OP_SUB, 4, 4, 4), [REGISTERS]uint8{4: 0x55}, nil, 0x00, -1,
			func(cpu *Cpu) { assert.Equal(uint8(0x00), cpu.Register[4]) }},
		{"inc_wrap", MakeCodeReg(OP_INC, 5), [REGISTERS]uint8{5: 0xff}, nil, 0x00, -1,
			func(cpu *Cpu) { assert.Equal(uint8(0x00), cpu.Register[5]) }},
		{"dec_wrap", MakeCodeReg(OP_DEC, 6), [REGISTERS]uint8{}, nil, 0xff, -1,
			func(cpu *Cpu) { assert.Equal(uint8(0xff), cpu.Register[6]) }},
		{"loadc", MakeCodeRegByte(OP_LOADC, 15, 0x05), [REGISTERS]uint8{}, nil, 0x05, -1,
			func(cpu *Cpu) { assert.Equal(uint8(0x05), cpu.Register[15]) }},
		{"copy", MakeCodeCopy(7, 8), [REGISTERS]uint8{8: 0x99}, nil, -1, -1,
			func(cpu *Cpu) { assert.Equal(uint8(0x99), cpu.Register[7]) }},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Register = entry.register
		for addr, value := range entry.memory {
			cpu.Memory[addr] = value
		}
		cpu.Pc = 0x40

		step, err := cpu.Execute(entry.code)
		assert.NoError(err, entry.name)

		assert.Equal(uint8(0x40), step.Pc, entry.name)
		assert.Equal(uint8(0x42), step.Next, entry.name)
		assert.Equal(uint8(0x42), cpu.Pc, entry.name)
		assert.Equal(entry.code, step.Code, entry.name)
		assert.False(step.Jumped, entry.name)
		assert.False(step.Halted, entry.name)
		assert.Equal(1, cpu.Ticks, entry.name)

		if entry.result < 0 {
			assert.False(step.HasResult, entry.name)
			assert.False(cpu.HasResult, entry.name)
		} else {
			assert.True(step.HasResult, entry.name)
			assert.Equal(uint8(entry.result), step.Result, entry.name)
			assert.Equal(uint8(entry.result), cpu.Result, entry.name)
		}

		if entry.address < 0 {
			assert.False(step.HasAddress, entry.name)
		} else {
			assert.True(step.HasAddress, entry.name)
			assert.Equal(uint8(entry.address), step.Address, entry.name)
		}

		entry.check(cpu)
	}
}

func TestCpuJumpz(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Pc = 0x20

	// No result has been produced yet.
	step, err := cpu.Execute(MakeCodeJump(0x80))
	assert.NoError(err)
	assert.False(step.Jumped)
	assert.Equal(uint8(0x22), cpu.Pc)

	// Non-zero result.
	cpu.Result = 1
	cpu.HasResult = true
	step, err = cpu.Execute(MakeCodeJump(0x80))
	assert.NoError(err)
	assert.False(step.Jumped)
	assert.Equal(uint8(0x24), step.Next)
	assert.Equal(uint8(0x24), cpu.Pc)

	// Zero result.
	cpu.Result = 0
	step, err = cpu.Execute(MakeCodeJump(0x80))
	assert.NoError(err)
	assert.True(step.Jumped)
	assert.Equal(uint8(0x80), step.Next)
	assert.Equal(uint8(0x80), cpu.Pc)

	// A jump does not change the last result.
	assert.True(cpu.HasResult)
	assert.Equal(uint8(0), cpu.Result)
}

func TestCpuStop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Load([]byte{0x70, 0x07, 0xf0, 0x00, 0x60, 0x00}, 0)

	_, err := cpu.Step()
	assert.NoError(err)

	step, err := cpu.Step()
	assert.NoError(err)
	assert.True(step.Halted)
	assert.True(cpu.Halted)
	assert.Equal(uint8(0x02), cpu.Pc)
	assert.Equal(uint8(0x02), step.Next)

	before := *cpu
	for range 4 {
		step, err = cpu.Step()
		assert.NoError(err)
		assert.True(step.Halted)
		assert.False(step.Jumped)
		assert.False(step.HasResult)
		assert.Equal(before, *cpu)
	}
}

func TestCpuIllegal(t *testing.T) {
	assert := assert.New(t)

	for nibble := uint8(0x9); nibble <= 0xe; nibble++ {
		cpu := NewCpu()
		cpu.Load([]byte{nibble<<4 | 1, 0x23}, 0x10)

		before := *cpu
		_, err := cpu.Step()
		assert.ErrorIs(err, ErrOpcodeIllegal)
		assert.True(errors.Is(err, ErrOpcode(0)))
		assert.Equal(before, *cpu)
	}
}

func TestCpuProgram(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LOADC A 00",
		"LOOP:",
		"INC A",
		"JUMPZ END",
		"JUMPZ LOOP",
		"END:",
		"STOP",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	cpu := NewCpu()
	cpu.Load(prog.Binary(), prog.Start)

	var pcs []uint8
	for !cpu.Halted {
		step, err := cpu.Step()
		assert.NoError(err)
		if err != nil {
			t.Fatal(err)
		}
		assert.False(step.Jumped)
		pcs = append(pcs, step.Pc)
	}

	assert.Equal([]uint8{0x00, 0x02, 0x04, 0x06, 0x08}, pcs)
	assert.Equal(uint8(0x01), cpu.Register[0])
	for n := 1; n < REGISTERS; n++ {
		assert.Equal(uint8(0), cpu.Register[n])
	}
	assert.Equal([]uint8{0x70, 0x00, 0x60, 0x00, 0x20, 0x08, 0x20, 0x02, 0xf0, 0x00}, cpu.Memory[:10])
	for _, value := range cpu.Memory[10:] {
		assert.Equal(uint8(0), value)
	}
	assert.Equal(uint8(0x08), cpu.Pc)
	assert.Equal(uint8(0x01), cpu.Result)
	assert.Equal(5, cpu.Ticks)
}

func TestCpuCountdown(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LOADC A 03",
		"LOADC B 00",
		"LOOP:",
		"INC B",
		"DEC A",
		"JUMPZ DONE",
		"LOADC P 00",
		"JUMPZ LOOP",
		"DONE:",
		"STORE B 80",
		"STOP",
	}

	asm := &Assembler{Start: 0x20}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	cpu := NewCpu()
	cpu.Load(prog.Binary(), prog.Start)

	for range 100 {
		if cpu.Halted {
			break
		}
		_, err = cpu.Step()
		assert.NoError(err)
	}

	assert.True(cpu.Halted)
	assert.Equal(uint8(0x00), cpu.Register[0])
	assert.Equal(uint8(0x03), cpu.Register[1])
	assert.Equal(uint8(0x03), cpu.Memory[0x80])
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[1] = 0xab
	text := cpu.String()
	assert.Contains(text, "    pc: 00\n")
	assert.Contains(text, "result: --\n")
	assert.Contains(text, "     B: AB\n")

	cpu.Reset()
	assert.Equal(uint8(0), cpu.Register[1])
}
