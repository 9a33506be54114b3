// Package cpu implements the microprocessor and assembler for the bytevm system.
//
// The CPU consists of sixteen 8-bit registers (A-P), 256 bytes of memory,
// an 8-bit program counter, and a "last result" latch used by the only
// conditional instruction, JUMPZ. Every instruction is exactly two bytes:
// the high nibble of the first byte selects the operation, the remaining
// twelve bits pack register indexes, an address, or a constant.
//
// The assembler is a two pass assembler. The first pass encodes every line
// against the instruction set grammar, leaving placeholders for jumps; the
// second pass patches the jumps once every label address is known.
package cpu
