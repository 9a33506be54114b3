// Package object reads and writes bytevm object files.
//
// An object file is a flat binary image: two bytes per instruction, in
// program order, with no header or metadata.
package object

import (
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ezrec/bytevm/cpu"
)

// MAX_SIZE is the largest image that fits in memory. Longer files are
// truncated when read.
const MAX_SIZE = cpu.MEMORY_SIZE

// Image is the content of an object file.
type Image struct {
	Data []byte
}

// FromProgram creates an image from an assembled program.
func FromProgram(prog *cpu.Program) *Image {
	return &Image{Data: prog.Binary()}
}

// Unmarshal reads an image, keeping at most MAX_SIZE bytes. The image
// must hold a whole number of instructions.
func (img *Image) Unmarshal(r io.Reader) (err error) {
	data, err := io.ReadAll(io.LimitReader(r, MAX_SIZE))
	if err != nil {
		return
	}
	if len(data)%cpu.CODE_SIZE != 0 {
		err = ErrObjectOdd
		return
	}

	img.Data = data
	return
}

// Marshal writes the image.
func (img *Image) Marshal(w io.Writer) (err error) {
	_, err = w.Write(img.Data)
	return
}

// Open reads an object file from a file system.
func Open(filesys fs.FS, name string) (img *Image, err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	img = &Image{}
	err = img.Unmarshal(inf)
	if err != nil {
		img = nil
	}
	return
}

// Save writes an object file to a file system.
func Save(filesys CreateFS, name string, img *Image) (err error) {
	if !fs.ValidPath(name) {
		err = &fs.PathError{Op: "create", Path: name, Err: ErrObjectName}
		return
	}

	ouf, err := filesys.Create(name)
	if err != nil {
		return
	}

	err = img.Marshal(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}

// Name returns the object file name for a source file name: the source
// extension, if any, is replaced by ".o".
func Name(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".o"
}
