// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tebeka/atexit"

	"github.com/ezrec/bytevm/cpu"
	"github.com/ezrec/bytevm/emulator"
	"github.com/ezrec/bytevm/object"
	"github.com/ezrec/bytevm/translate"
)

var (
	ErrStartSyntax = translate.Error("load address must be hexadecimal")
	ErrStartOdd    = translate.Error("load address must be even")
	ErrStartRange  = translate.Error("load address must be below 0x100")
	ErrSaveObject  = translate.Error("object files are already saved")
)

// parseStart parses the hexadecimal load address argument.
func parseStart(arg string) (start uint8, err error) {
	value, err := strconv.ParseUint(arg, 16, 64)
	if err != nil {
		err = ErrStartSyntax
		return
	}
	if value > 0xff {
		err = ErrStartRange
		return
	}
	if value%2 != 0 {
		err = ErrStartOdd
		return
	}

	start = uint8(value)
	return
}

// Options holds the command line settings.
type Options struct {
	Save    bool  // Save the object file only.
	Verbose bool  // Verbose logging.
	Steps   int   // Step limit, or 0 for none.
	Start   uint8 // Load address.
}

// assemble assembles a source file with the emulator defines, and saves
// its object file next to it. Nothing is written if assembly fails.
func assemble(emu *emulator.Emulator, dir string, base string) (prog *cpu.Program, err error) {
	source := filepath.Join(dir, base)
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: emu.Verbose, Start: emu.Start}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		return
	}

	name := object.Name(base)
	err = object.Save(object.DirFS(dir), name, object.FromProgram(prog))
	if err != nil {
		prog = nil
		return
	}
	if emu.Verbose {
		log.Printf("%v: wrote %v", source, filepath.Join(dir, name))
	}

	return
}

// run assembles a source file, or loads an object file, and runs it
// unless only saving. The final state is rendered to out.
func run(opts Options, source string, out io.Writer) (err error) {
	emu := emulator.NewEmulator()
	emu.Verbose = opts.Verbose
	emu.Start = opts.Start

	dir, base := filepath.Split(source)
	if len(dir) == 0 {
		dir = "."
	}

	if filepath.Ext(base) == ".o" {
		if opts.Save {
			err = ErrSaveObject
			return
		}

		var img *object.Image
		img, err = object.Open(os.DirFS(dir), base)
		if err != nil {
			return
		}
		emu.LoadImage(img)
	} else {
		emu.Program, err = assemble(emu, dir, base)
		if err != nil || opts.Save {
			return
		}

		err = emu.Reset()
		if err != nil {
			return
		}
	}

	err = emu.Run(opts.Steps)
	fmt.Fprint(out, emu.Render())

	return
}

func main() {
	var opts Options

	flag.BoolVar(&opts.Save, "s", false, "Save object file only, do not execute")
	flag.BoolVar(&opts.Verbose, "v", false, "Verbose mode")
	flag.IntVar(&opts.Steps, "n", emulator.STEP_LIMIT, "Step limit (0 for no limit)")

	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		atexit.Fatalf("usage: %v [-v] [-s] [-n steps] source.asm|object.o [start]", os.Args[0])
	}

	source := flag.Arg(0)

	if flag.NArg() == 2 {
		start, err := parseStart(flag.Arg(1))
		if err != nil {
			atexit.Fatalf("%v: %v", flag.Arg(1), err)
		}
		opts.Start = start
	}

	err := run(opts, source, os.Stdout)
	if err != nil {
		atexit.Fatalf("%v: %v", source, err)
	}

	atexit.Exit(0)
}
