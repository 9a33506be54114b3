package object

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files.
type CreateFS interface {
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is a CreateFS rooted at a directory of the host file system.
type DirFS string

var _ CreateFS = DirFS("")

// Create creates or truncates a file in the directory.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	if !fs.ValidPath(name) {
		err = &fs.PathError{Op: "create", Path: name, Err: ErrObjectName}
		return
	}

	return os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
}
