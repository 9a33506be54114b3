// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two pass assembler for the bytevm system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Start   uint8    // Address the program will be loaded at.
	Grammar *Grammar // Instruction set grammar. If nil, Rules is used.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]uint8 // Predefines
	Label     map[string]int   // Map of jump labels to byte addresses.
	Equate    map[string]uint8 // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value uint8) {
	if asm.predefine == nil {
		asm.predefine = map[string]uint8{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reParen  = regexp.MustCompile(`\$\([^\$]*\)`)
	reEquate = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)
	reByte   = regexp.MustCompile(`^[0-9A-F]{2}$`)
)

// grammar returns the grammar in use.
func (asm *Assembler) grammar() *Grammar {
	if asm.Grammar == nil {
		return defaultGrammar()
	}
	return asm.Grammar
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint8, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, equ := range asm.Equate {
		pred[key] = starlark.MakeInt(int(equ))
		pred[strings.ToLower(key)] = starlark.MakeInt(int(equ))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xff {
		err = ErrParseExpression(expr)
		return
	}
	value = uint8(st_int64)
	return
}

// currentIp gets the byte address of the next instruction.
func (asm *Assembler) currentIp() int {
	return int(asm.Start) + len(asm.Opcode)*CODE_SIZE
}

// parseLine evaluates a single trimmed, non-empty line of assembly text.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%02X", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(strings.ToUpper(line))

	// .equ CONST VALUE
	if words[0] == ".EQU" {
		if len(words) != 3 || !reEquate.MatchString(words[1]) || !reByte.MatchString(words[2]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		value, _ := strconv.ParseUint(words[2], 16, 8)
		asm.Equate[words[1]] = uint8(value)
		return
	}

	// Equates only stand in for byte operands.
	if kinds, ok := asm.grammar().Operands(words[0], len(words)-1); ok {
		for n, kind := range kinds {
			if kind != OPERAND_BYTE {
				continue
			}
			equate, ok := asm.Equate[words[1+n]]
			if ok {
				words[1+n] = fmt.Sprintf("%02X", equate)
			}
		}
	}

	line = strings.Join(words, " ")

	stmt, ok := asm.grammar().Match(line)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if stmt.Rule == nil {
		_, ok := asm.Label[stmt.Label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[stmt.Label] = asm.currentIp()
		if asm.Verbose {
			log.Printf("asm: label %v = 0x%02x", stmt.Label, asm.Label[stmt.Label])
		}
		return
	}

	opcode := Opcode{
		LineNo:    lineno,
		Ip:        asm.currentIp(),
		Line:      line,
		Code:      stmt.Rule.Encode(stmt.Args),
		LinkLabel: stmt.Label,
	}
	asm.Opcode = append(asm.Opcode, opcode)

	return
}

// Parse parses an input stream into a Program. Assembly stops at the first
// invalid line; no Program is returned on error.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	asm.Equate = map[string]uint8{
		"START": asm.Start,
	}
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = op.Line

		label := op.LinkLabel
		ip, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if ip > 0xff {
			err = &ErrLabelRange{Label: label, Address: ip}
			return
		}
		op.Code = MakeCodeJump(uint8(ip))
	}

	prog = &Program{
		Start:   asm.Start,
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
	}

	return
}
