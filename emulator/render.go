package emulator

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/bytevm/cpu"
)

// renderRegisters renders the program counter and register bank.
func (emu *Emulator) renderRegisters() string {
	regTable := table.NewWriter()
	regTable.SetTitle("Registers")

	header := table.Row{"PC"}
	row := table.Row{fmt.Sprintf("%02X", emu.Cpu.Pc)}
	for n, value := range emu.Cpu.Register {
		header = append(header, cpu.RegisterName(uint8(n)))
		row = append(row, fmt.Sprintf("%02X", value))
	}

	regTable.AppendHeader(header)
	regTable.AppendRow(row)

	return regTable.Render()
}

// renderMemory renders memory as a 16x16 hex dump. The instruction at the
// program counter is bracketed, and the address touched by the last tick
// is starred.
func (emu *Emulator) renderMemory() string {
	memTable := table.NewWriter()
	memTable.SetTitle("Memory")

	header := table.Row{""}
	for col := range 16 {
		header = append(header, fmt.Sprintf("%X", col))
	}
	memTable.AppendHeader(header)

	pc := emu.Cpu.Pc
	for base := 0; base < cpu.MEMORY_SIZE; base += 16 {
		row := table.Row{fmt.Sprintf("%02X", base)}
		for col := range 16 {
			addr := uint8(base + col)
			cell := fmt.Sprintf("%02X", emu.Cpu.Memory[addr])
			switch {
			case addr == pc || addr == pc+1:
				cell = "[" + cell + "]"
			case emu.last.HasAddress && addr == emu.last.Address:
				cell = "*" + cell
			}
			row = append(row, cell)
		}
		memTable.AppendRow(row)
	}

	return memTable.Render()
}

// renderListing renders the program listing with labels, bytes and source.
func (emu *Emulator) renderListing() string {
	listTable := table.NewWriter()
	listTable.SetTitle("Program")
	listTable.AppendHeader(table.Row{"", "Label", "Addr", "Bytes", "Source"})

	for _, op := range emu.Program.Opcodes {
		marker := ""
		if op.Ip == int(emu.Cpu.Pc) {
			marker = "-->"
		}
		var labels []string
		for _, label := range emu.Program.LabelAt(op.Ip) {
			labels = append(labels, label+":")
		}
		data := op.Code.Bytes()
		listTable.AppendRow(table.Row{
			marker,
			strings.Join(labels, " "),
			fmt.Sprintf("%02X", op.Ip),
			fmt.Sprintf("%02X %02X", data[0], data[1]),
			op.Line,
		})
	}

	return listTable.Render()
}

// Render returns a text rendering of the emulator state: registers,
// memory, and the program listing, if any.
func (emu *Emulator) Render() string {
	parts := []string{
		emu.renderRegisters(),
		emu.renderMemory(),
	}

	if len(emu.Program.Opcodes) != 0 {
		parts = append(parts, emu.renderListing())
	}

	return strings.Join(parts, "\n") + "\n"
}
